// Package gamedb is the sqlite side store: spell/talent metadata the
// compiler can resolve against, plus an asynchronous index of journal
// entries for later inspection. The index writer runs on its own
// goroutine so it never stalls the event thread; the zstd journal stays
// the source of truth.
package gamedb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Amanthuul/spellactivationoverlay/internal/catalogs"
	"github.com/Amanthuul/spellactivationoverlay/internal/engine"
	"github.com/Amanthuul/spellactivationoverlay/internal/journal"
)

type DB struct {
	db *sql.DB

	ch   chan journal.Entry
	wg   sync.WaitGroup
	once sync.Once

	// mu orders queue sends against close(ch): a send after the channel
	// closed would panic.
	mu     sync.Mutex
	closed bool
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &DB{
		db: db,
		ch: make(chan journal.Entry, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style index writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS spells (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_spells_name ON spells(name);`,
		`CREATE TABLE IF NOT EXISTS talents (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			tab INTEGER NOT NULL,
			idx INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY,
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			spell_id INTEGER NOT NULL,
			spell_name TEXT,
			digest TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_spell ON events(spell_id, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *DB) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// IndexEntry queues one journal entry for indexing. Dropped when the
// indexer falls behind; the journal remains the source of truth. Safe
// to call concurrently with Close.
func (s *DB) IndexEntry(e journal.Entry) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

func (s *DB) loop() {
	for e := range s.ch {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO events(seq, at, kind, spell_id, spell_name, digest) VALUES(?,?,?,?,?,?)`,
			e.Seq, e.At, e.Event.Kind, e.Event.SpellID, e.Event.SpellName, e.Digest)
		if err != nil {
			// Index writes are best effort; nothing to do but drop.
			continue
		}
	}
}

// ImportCatalogs replaces the metadata tables with the given catalogs.
func (s *DB) ImportCatalogs(c *catalogs.Catalogs) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM spells`); err != nil {
		return err
	}
	for _, d := range c.Spells.Defs {
		if _, err := tx.Exec(`INSERT INTO spells(id, name, icon) VALUES(?,?,?)`, d.ID, d.Name, d.Icon); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`DELETE FROM talents`); err != nil {
		return err
	}
	for _, d := range c.Talents.Defs {
		if _, err := tx.Exec(`INSERT INTO talents(id, name, tab, idx) VALUES(?,?,?,?)`, d.ID, d.Name, d.Tab, d.Index); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO meta(key, value) VALUES('imported_at', ?)`,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// SpellName implements effects.MetadataSource.
func (s *DB) SpellName(id int32) (string, bool) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM spells WHERE id = ?`, id).Scan(&name)
	if err != nil {
		return "", false
	}
	return name, true
}

// TalentCoord implements effects.MetadataSource.
func (s *DB) TalentCoord(id int32) (engine.TalentCoord, bool) {
	var c engine.TalentCoord
	err := s.db.QueryRow(`SELECT tab, idx FROM talents WHERE id = ?`, id).Scan(&c.Tab, &c.Index)
	if err != nil {
		return engine.TalentCoord{}, false
	}
	return c, true
}

// EventCount reports how many journal entries are indexed, mainly for
// tests and the admin endpoint of last resort: sqlite3 on the file.
func (s *DB) EventCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}
