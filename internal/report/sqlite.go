// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var schema = []string{
	`CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		generated_at TEXT NOT NULL,
		score_cutoff REAL NOT NULL,
		word_delimiter TEXT NOT NULL,
		relations_delimiter TEXT NOT NULL,
		expand_antonyms INTEGER NOT NULL
	)`,
	`CREATE TABLE inputs (
		role TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		blake3 TEXT NOT NULL,
		size INTEGER NOT NULL,
		compressed INTEGER NOT NULL
	)`,
	`CREATE TABLE sections (
		idx INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		polarity TEXT NOT NULL,
		line INTEGER NOT NULL
	)`,
	`CREATE TABLE entries (
		section INTEGER NOT NULL REFERENCES sections(idx),
		idx INTEGER NOT NULL,
		label TEXT NOT NULL,
		base TEXT NOT NULL,
		terms TEXT NOT NULL,
		line INTEGER NOT NULL,
		PRIMARY KEY (section, idx)
	)`,
	`CREATE TABLE findings (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		section INTEGER NOT NULL,
		entry INTEGER NOT NULL,
		owner TEXT NOT NULL,
		term TEXT NOT NULL,
		term_index INTEGER NOT NULL,
		conflict TEXT NOT NULL,
		polarity TEXT NOT NULL
	)`,
	`CREATE INDEX idx_findings_term ON findings(term)`,
	`CREATE TABLE diagnostics (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		line INTEGER NOT NULL,
		kind TEXT NOT NULL,
		message TEXT NOT NULL
	)`,
}

// WriteSQLite writes r to a fresh SQLite database at path. An existing file
// is replaced so the database only ever holds one run.
func WriteSQLite(ctx context.Context, path string, r *Report) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing old report: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	if err := insertRun(ctx, tx, r); err != nil {
		return err
	}
	if err := insertSections(ctx, tx, r); err != nil {
		return err
	}
	if err := insertFindings(ctx, tx, r); err != nil {
		return err
	}
	if err := insertDiagnostics(ctx, tx, r); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRun(ctx context.Context, tx *sql.Tx, r *Report) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, generated_at, score_cutoff, word_delimiter, relations_delimiter, expand_antonyms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.GeneratedAt.Format(time.RFC3339Nano), r.Relations.ScoreCutoff,
		r.WordPack.Delimiter, r.Relations.Delimiter, r.Detect.ExpandAntonyms,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, in := range r.Inputs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inputs (role, path, blake3, size, compressed) VALUES (?, ?, ?, ?, ?)`,
			in.Role, in.Path, in.Digest, in.Size, in.Compressed,
		)
		if err != nil {
			return fmt.Errorf("inserting input %s: %w", in.Role, err)
		}
	}
	return nil
}

func insertSections(ctx context.Context, tx *sql.Tx, r *Report) error {
	secStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (idx, name, polarity, line) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing section insert: %w", err)
	}
	defer secStmt.Close()

	entryStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (section, idx, label, base, terms, line) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entry insert: %w", err)
	}
	defer entryStmt.Close()

	for _, s := range r.Sections {
		if _, err := secStmt.ExecContext(ctx, s.Index, s.Name, string(s.Polarity), s.Line); err != nil {
			return fmt.Errorf("inserting section %q: %w", s.Name, err)
		}
		for i, e := range s.Entries {
			termsJSON, err := json.Marshal(nonNil(e.Terms))
			if err != nil {
				return fmt.Errorf("marshaling terms of %q: %w", e.Label, err)
			}
			if _, err := entryStmt.ExecContext(ctx, s.Index, i, e.Label, e.Base, string(termsJSON), e.Line); err != nil {
				return fmt.Errorf("inserting entry %q: %w", e.Label, err)
			}
		}
	}
	return nil
}

func insertFindings(ctx context.Context, tx *sql.Tx, r *Report) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (section, entry, owner, term, term_index, conflict, polarity)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing finding insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range r.Findings {
		_, err := stmt.ExecContext(ctx,
			f.Section, f.Entry, f.Owner, f.Term, f.TermIndex, f.Conflict, string(f.Polarity))
		if err != nil {
			return fmt.Errorf("inserting finding %s: %w", f, err)
		}
	}
	return nil
}

func insertDiagnostics(ctx context.Context, tx *sql.Tx, r *Report) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (source, line, kind, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing diagnostic insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range r.Diagnostics {
		if _, err := stmt.ExecContext(ctx, string(d.Source), d.Line, string(d.Kind), d.Message); err != nil {
			return fmt.Errorf("inserting diagnostic: %w", err)
		}
	}
	return nil
}
