package levelpreview

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	db := newDB(t)

	cells, rotations := scenario()
	good := levelCode(10, cells, rotations, "0", "0")
	hued := levelCode(10, cells, rotations, "40", "c20")

	csv := fmt.Sprintf("ID,Level Code\n1,%s\n2,%s\n3,%s\n4,junk\n", good, hued, good)
	require.NoError(t, db.ImportCSV(strings.NewReader(csv)))

	p := newProvider()
	g := NewGenerator(db, p, nil, WithThumbnailSize(60, 45))
	require.NoError(t, g.Generate(context.Background(), 3))

	// Each worker loads its own assets
	assert.Equal(t, int32(3*172), p.loads)

	for _, id := range []string{"1", "2", "3", "4"} {
		b, err := db.Thumbnail(id)
		require.NoError(t, err)
		require.NotNil(t, b, id)

		cfg, err := png.DecodeConfig(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, 60, cfg.Width)
		assert.Equal(t, 45, cfg.Height)
	}

	// Levels 1 and 3 render identically
	n, err := db.Thumbnails()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestGeneratePaletted(t *testing.T) {
	db := newDB(t)

	cells, rotations := scenario()
	require.NoError(t, db.ImportCSV(strings.NewReader("ID,Level Code\n1,"+levelCode(10, cells, rotations, "0", "0")+"\n")))

	g := NewGenerator(db, newProvider(), nil)
	g.Colors = 8
	require.NoError(t, g.Generate(context.Background(), 0))

	b, err := db.Thumbnail("1")
	require.NoError(t, err)
	m, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 240, m.Bounds().Dx())
}

func TestGenerateCancelled(t *testing.T) {
	db := newDB(t)
	require.NoError(t, db.ImportCSV(strings.NewReader("ID,Level Code\n1,x\n")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, NewGenerator(db, newProvider(), nil).Generate(ctx, 2))
}
