// Package store persists a graph snapshot to SQLite so other tooling can
// query the catalog with plain SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"depmap/internal/graph"
)

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	file TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	PRIMARY KEY (source, target)
);
CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGraph replaces the stored snapshot with the given graph in a single
// transaction.
func (s *Store) SaveGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM edges", "DELETE FROM nodes"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing previous snapshot: %w", err)
		}
	}

	insertNode, err := tx.PrepareContext(ctx, "INSERT INTO nodes (id, name, kind, file) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertNode.Close()

	for _, e := range g.Entities() {
		if _, err := insertNode.ExecContext(ctx, e.ID, e.Name, string(e.Kind), e.File); err != nil {
			return fmt.Errorf("inserting node %s: %w", e.Name, err)
		}
	}

	insertEdge, err := tx.PrepareContext(ctx, "INSERT INTO edges (source, target) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer insertEdge.Close()

	for _, e := range g.Entities() {
		for _, dep := range g.Dependencies(e.ID) {
			if _, err := insertEdge.ExecContext(ctx, e.ID, dep.ID); err != nil {
				return fmt.Errorf("inserting edge %s -> %s: %w", e.Name, dep.Name, err)
			}
		}
	}

	return tx.Commit()
}

// CountNodes returns the stored node count.
func (s *Store) CountNodes(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&n)
	return n, err
}

// CountEdges returns the stored edge count.
func (s *Store) CountEdges(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&n)
	return n, err
}
