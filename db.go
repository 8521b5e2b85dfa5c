package levelpreview

import (
	"crypto/sha1"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

// Record is a catalogued level.
type Record struct {
	ID         string `json:"id"`
	Rank       string `json:"rank"`
	Label      string `json:"label"`
	Username   string `json:"username"`
	Project    string `json:"project"`
	Difficulty string `json:"difficulty"`
	Code       string `json:"code"`
	Date       string `json:"date"`
	PostID     string `json:"post_id"`
	Count      int    `json:"count"`
}

// CSV column names and the Record field each populates.
var csvColumns = []struct {
	name  string
	field func(*Record) *string
}{
	{"ID", func(r *Record) *string { return &r.ID }},
	{"Rank", func(r *Record) *string { return &r.Rank }},
	{"Level", func(r *Record) *string { return &r.Label }},
	{"Creator", func(r *Record) *string { return &r.Username }},
	{"Project", func(r *Record) *string { return &r.Project }},
	{"Difficulty", func(r *Record) *string { return &r.Difficulty }},
	{"Level Code", func(r *Record) *string { return &r.Code }},
}

// Optional columns matched case-insensitively.
var csvExtras = []struct {
	name  string
	field func(*Record) *string
}{
	{"date", func(r *Record) *string { return &r.Date }},
	{"post_id", func(r *Record) *string { return &r.PostID }},
}

var errNoID = errors.New("level has no ID")

// LevelDB is a catalogue of levels and their rendered thumbnails.
type LevelDB struct {
	db *sql.DB
}

// NewLevelDB opens, creating if necessary, the sqlite catalogue in file.
func NewLevelDB(file string) (*LevelDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS thumbnail (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, png BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS level (id TEXT PRIMARY KEY NOT NULL, rank TEXT NOT NULL, label TEXT NOT NULL, username TEXT NOT NULL, project TEXT NOT NULL, difficulty TEXT NOT NULL, code TEXT NOT NULL, date TEXT NOT NULL, post_id TEXT NOT NULL, count INTEGER NOT NULL, thumbnail_id INTEGER, FOREIGN KEY(thumbnail_id) REFERENCES thumbnail(id))"); err != nil {
		return nil, err
	}

	return &LevelDB{
		db: db,
	}, nil
}

// Close closes the catalogue.
func (db *LevelDB) Close() error {
	return db.db.Close()
}

func parseCSVRecord(header map[string]int, extras map[string]int, row []string) Record {
	get := func(i int, ok bool) string {
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var r Record
	for _, c := range csvColumns {
		i, ok := header[c.name]
		*c.field(&r) = get(i, ok)
	}
	for _, c := range csvExtras {
		i, ok := extras[c.name]
		*c.field(&r) = get(i, ok)
	}
	i, ok := extras["count"]
	if n, err := strconv.Atoi(strings.TrimSpace(get(i, ok))); err == nil {
		r.Count = n
	}

	return r
}

// ImportCSV replaces the catalogue with the levels read from a CSV export
// with a header row. Thumbnails are discarded.
func (db *LevelDB) ImportCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	names, err := cr.Read()
	if err != nil {
		return err
	}

	header := make(map[string]int)
	extras := make(map[string]int)
	for i, name := range names {
		if _, ok := header[name]; !ok {
			header[name] = i
		}
		if _, ok := extras[strings.ToLower(name)]; !ok {
			extras[strings.ToLower(name)] = i
		}
	}

	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("DELETE FROM level"); err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM thumbnail"); err != nil {
		return err
	}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		record := parseCSVRecord(header, extras, row)
		if record.ID == "" {
			return fmt.Errorf("line %d: %w", line, errNoID)
		}

		if _, err := tx.Exec("INSERT OR REPLACE INTO level (id, rank, label, username, project, difficulty, code, date, post_id, count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", record.ID, record.Rank, record.Label, record.Username, record.Project, record.Difficulty, record.Code, record.Date, record.PostID, record.Count); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ExportJSON writes the catalogue as an indented JSON array.
func (db *LevelDB) ExportJSON(w io.Writer) error {
	records, err := db.Records()
	if err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func scanRecord(s interface{ Scan(...interface{}) error }) (Record, error) {
	var r Record
	err := s.Scan(&r.ID, &r.Rank, &r.Label, &r.Username, &r.Project, &r.Difficulty, &r.Code, &r.Date, &r.PostID, &r.Count)
	return r, err
}

const selectRecord = "SELECT id, rank, label, username, project, difficulty, code, date, post_id, count FROM level"

// Records returns every catalogued level ordered by ID.
func (db *LevelDB) Records() ([]Record, error) {
	rows, err := db.db.Query(selectRecord + " ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Record returns the level with the given ID, or nil if there isn't one.
func (db *LevelDB) Record(id string) (*Record, error) {
	switch r, err := scanRecord(db.db.QueryRow(selectRecord+" WHERE id = ?", id)); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return &r, nil
	default:
		return nil, err
	}
}

func (db *LevelDB) addThumbnail(png []byte) (int64, error) {
	sha := fmt.Sprintf("%X", sha1.Sum(png))

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM thumbnail WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO thumbnail (sha1, png) VALUES (?, ?)", sha, png)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// SetThumbnail stores the PNG encoded thumbnail for the level with the
// given ID. Identical thumbnails are only stored once.
func (db *LevelDB) SetThumbnail(id string, png []byte) error {
	thumbnail, err := db.addThumbnail(png)
	if err != nil {
		return err
	}

	result, err := db.db.Exec("UPDATE level SET thumbnail_id = ? WHERE id = ?", thumbnail, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no level with ID %q", id)
	}
	return nil
}

// Thumbnail returns the PNG encoded thumbnail for the level with the given
// ID, or nil if it has not been rendered.
func (db *LevelDB) Thumbnail(id string) ([]byte, error) {
	var png []byte
	switch err := db.db.QueryRow("SELECT t.png FROM level AS l LEFT JOIN thumbnail AS t ON l.thumbnail_id = t.id WHERE l.id = ?", id).Scan(&png); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return png, nil
	default:
		return nil, err
	}
}

// Thumbnails returns the number of distinct stored thumbnails.
func (db *LevelDB) Thumbnails() (int, error) {
	var n int
	err := db.db.QueryRow("SELECT COUNT(*) FROM thumbnail").Scan(&n)
	return n, err
}
