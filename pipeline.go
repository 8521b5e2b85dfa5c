package levelpreview

import (
	"context"
	"errors"
	"io/ioutil"
	"log"
	"sync"

	"github.com/bodgit/levelpreview/code"
)

// Generator renders thumbnails for every level in a catalogue.
type Generator struct {
	db       *LevelDB
	provider AssetProvider
	logger   *log.Logger
	options  []Option

	// Colors, if non-zero, reduces each thumbnail to a palette of that
	// many colors
	Colors int
}

// NewGenerator returns a Generator storing thumbnails in db, with each
// worker loading its own assets from provider.
func NewGenerator(db *LevelDB, provider AssetProvider, logger *log.Logger, options ...Option) *Generator {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Generator{
		db:       db,
		provider: provider,
		logger:   logger,
		options:  append(options, WithLogger(logger)),
	}
}

func (g *Generator) findRecords(ctx context.Context) (<-chan Record, <-chan error, error) {
	records, err := g.db.Records()
	if err != nil {
		return nil, nil, err
	}

	out := make(chan Record)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, r := range records {
			select {
			case out <- r:
			case <-ctx.Done():
				errc <- errors.New("generate cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (g *Generator) encode(res *Result) ([]byte, error) {
	if g.Colors > 0 {
		return res.Paletted(g.Colors)
	}
	return res.PNG()
}

func (g *Generator) levelWorker(ctx context.Context, in <-chan Record) (<-chan error, error) {
	// Each worker owns its assets and caches
	renderer, err := New(ctx, g.provider, g.options...)
	if err != nil {
		return nil, err
	}

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for record := range in {
			level, err := code.Decode(record.Code)
			if err != nil {
				g.logger.Printf("Level \"%s\" is malformed: %s\n", record.ID, err)
			}

			res, err := renderer.Thumbnail(level)
			if err != nil {
				g.logger.Printf("Unable to render level \"%s\": %s\n", record.ID, err)
				continue
			}

			b, err := g.encode(res)
			if err != nil {
				g.logger.Printf("Unable to encode level \"%s\": %s\n", record.ID, err)
				continue
			}

			if err := g.db.SetThumbnail(record.ID, b); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Generate renders and stores a thumbnail for every catalogued level using
// the given number of workers. Levels that fail to render are logged and
// skipped; the first storage error stops the run.
func (g *Generator) Generate(ctx context.Context, workers int) error {
	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	records, errc, err := g.findRecords(ctx)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := g.levelWorker(ctx, records)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
