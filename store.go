package main

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// Archive remembers solved (catalog, policy) pairs so identical reruns are
// answered without searching again.
type Archive struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// OpenArchive opens or creates the sqlite archive at path.
func OpenArchive(path string) (*Archive, error) {
	if path == "" {
		return nil, fmt.Errorf("empty archive path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initArchiveSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, err
	}
	return &Archive{db: db, enc: enc, dec: dec}, nil
}

func initArchiveSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			happiness REAL NOT NULL,
			solutions INTEGER NOT NULL,
			truncated INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			result BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS runs_fingerprint ON runs(fingerprint, created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init archive: %w", err)
		}
	}
	return nil
}

// Close releases the database and codecs.
func (a *Archive) Close() error {
	a.dec.Close()
	return errors.Join(a.enc.Close(), a.db.Close())
}

// Save stores res under fp and returns the new run ID. Truncated results are
// stored too but never served by Lookup.
func (a *Archive) Save(ctx context.Context, fp string, res *Result) (string, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	id := uuid.NewString()
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO runs(id, fingerprint, happiness, solutions, truncated, elapsed_ms, created_at, result)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fp, res.OptimalHappiness, len(res.Solutions), boolInt(res.Truncated),
		res.Elapsed.Milliseconds(), time.Now().UnixNano(),
		a.enc.EncodeAll(raw, nil))
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	return id, nil
}

// Lookup returns the newest complete result stored under fp.
func (a *Archive) Lookup(ctx context.Context, fp string) (*Result, bool, error) {
	var blob []byte
	err := a.db.QueryRowContext(ctx,
		`SELECT result FROM runs WHERE fingerprint = ? AND truncated = 0
		 ORDER BY created_at DESC LIMIT 1`, fp).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup run: %w", err)
	}
	raw, err := a.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress run: %w", err)
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("decode run: %w", err)
	}
	return &res, true, nil
}

// Fingerprint identifies a (catalog, policy) pair. Tuning does not take
// part: it never changes which layouts are optimal.
func Fingerprint(cat *Catalog, pol Policy) string {
	type prefJSON struct {
		E string `json:"e"`
		S string `json:"s"`
	}
	type npcJSON struct {
		Name   string     `json:"name"`
		Kind   string     `json:"kind"`
		Biomes []prefJSON `json:"biomes"`
		NPCs   []prefJSON `json:"npcs"`
	}
	npcs := make([]npcJSON, len(cat.NPCs))
	for i, n := range cat.NPCs {
		npcs[i] = npcJSON{Name: n.Name, Kind: n.Kind.String()}
		for _, p := range n.BiomePrefs {
			npcs[i].Biomes = append(npcs[i].Biomes, prefJSON{p.Emotion.String(), p.Subject})
		}
		for _, p := range n.NPCPrefs {
			npcs[i].NPCs = append(npcs[i].NPCs, prefJSON{p.Emotion.String(), p.Subject})
		}
	}
	raw, _ := json.Marshal(struct {
		NPCs   []npcJSON `json:"npcs"`
		Policy Policy    `json:"policy"`
	}{npcs, pol.withDefaults()})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
