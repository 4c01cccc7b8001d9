/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package cluedb serves trivia categories from a local SQLite database, for
// playing without access to the API.
package cluedb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Seednode/triviabox/games/jeopardy"
)

//go:embed schema.sql
var schema string

type DB struct {
	sql *sql.DB

	// MinClues skips categories with fewer clues than a column needs.
	MinClues int
}

// Open opens (creating if needed) the clue database at path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	return d.sql.Close()
}

// CategoryIDs returns up to count random category ids holding at least
// MinClues clues.
func (d *DB) CategoryIDs(ctx context.Context, count int) ([]int, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id FROM categories
		 WHERE (SELECT COUNT(1) FROM clues WHERE category_id = categories.id) >= ?
		 ORDER BY RANDOM() LIMIT ?`, d.MinClues, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Category returns category id with its clues in stored order.
func (d *DB) Category(ctx context.Context, id int) (jeopardy.CategoryRecord, error) {
	var rec jeopardy.CategoryRecord

	err := d.sql.QueryRowContext(ctx, `SELECT title FROM categories WHERE id = ?`, id).Scan(&rec.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("category %d not found: %w", id, jeopardy.ErrDataShape)
	}
	if err != nil {
		return rec, err
	}

	rows, err := d.sql.QueryContext(ctx,
		`SELECT question, answer FROM clues WHERE category_id = ? ORDER BY position`, id)
	if err != nil {
		return rec, err
	}
	defer rows.Close()

	rec.Clues = []jeopardy.RawClue{}
	for rows.Next() {
		var c jeopardy.RawClue
		if err := rows.Scan(&c.Question, &c.Answer); err != nil {
			return rec, err
		}
		rec.Clues = append(rec.Clues, c)
	}

	return rec, rows.Err()
}

// Put stores rec under id, replacing any category already there.
func (d *DB) Put(ctx context.Context, id int, rec jeopardy.CategoryRecord) error {
	if rec.Title == "" || rec.Clues == nil {
		return fmt.Errorf("category %d: %w", id, jeopardy.ErrDataShape)
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clues WHERE category_id = ?`, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO categories (id, title) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title`, id, rec.Title); err != nil {
		return err
	}

	for i, c := range rec.Clues {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clues (category_id, position, question, answer) VALUES (?, ?, ?, ?)`,
			id, i, c.Question, c.Answer); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Count returns the number of stored categories.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(1) FROM categories`).Scan(&n)
	return n, err
}
