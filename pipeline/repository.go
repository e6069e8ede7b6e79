// Copyright 2026 The Address-to-Latlon Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/uber/h3-go/v4"
)

// summaryCellResolution is the h3 resolution used to count distinct areas
// among geocoded rows (res 8 cells are ~0.7 km² hexagons).
const summaryCellResolution = 8

// Summary aggregates the outcome of one run.
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failure int `json:"failure"`
	Skipped int `json:"skipped"`
	// DistinctCells is the number of distinct h3 res-8 cells covered by the
	// successfully geocoded rows.
	DistinctCells int `json:"distinct_cells"`
}

// ResultRepository stores row outcomes for aggregation. Implementations are
// run-scoped: state lives only for the lifetime of one processing run.
type ResultRepository interface {
	// CreateSchema creates the row_results table.
	CreateSchema() error
	// SaveResults appends the outcome of a run, in file order.
	SaveResults(results []RowResult) error
	// Summary aggregates the stored outcomes.
	Summary() (*Summary, error)
	// Close releases the underlying database.
	Close() error
}

type sqlResultRepository struct {
	db *sql.DB
}

// NewSQLResultRepository creates a repository backed by an in-memory DuckDB
// database. Nothing is ever written to disk.
func NewSQLResultRepository() (ResultRepository, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	return &sqlResultRepository{db: db}, nil
}

func (r *sqlResultRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS row_results (
			row_index INTEGER NOT NULL,
			address   VARCHAR,
			status    VARCHAR NOT NULL,
			message   VARCHAR,
			lat       DOUBLE,
			lng       DOUBLE,
			h3_res8   BIGINT
		)
	`)
	if err != nil {
		return fmt.Errorf("creating row_results table: %w", err)
	}

	return nil
}

func (r *sqlResultRepository) SaveResults(results []RowResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO row_results (row_index, address, status, message, lat, lng, h3_res8)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Join(
			fmt.Errorf("preparing insert: %w", err),
			tx.Rollback(),
		)
	}
	defer stmt.Close()

	for i, res := range results {
		var lat, lng any

		var cell any

		if res.Point != nil {
			lat, lng = res.Point.Lat, res.Point.Lng

			c, err := h3.LatLngToCell(h3.NewLatLng(res.Point.Lat, res.Point.Lng), summaryCellResolution)
			if err != nil {
				return errors.Join(
					fmt.Errorf("computing h3 cell for row %d: %w", i, err),
					tx.Rollback(),
				)
			}

			cell = int64(c)
		}

		if _, err := stmt.Exec(i, res.Address, string(res.Status), res.Message, lat, lng, cell); err != nil {
			return errors.Join(
				fmt.Errorf("inserting row %d: %w", i, err),
				tx.Rollback(),
			)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}

	return nil
}

func (r *sqlResultRepository) Summary() (*Summary, error) {
	var s Summary

	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'success'),
			count(*) FILTER (WHERE status = 'failure'),
			count(*) FILTER (WHERE status = 'skipped'),
			count(DISTINCT h3_res8) FILTER (WHERE status = 'success')
		FROM row_results
	`
	if err := r.db.QueryRow(query).Scan(
		&s.Total,
		&s.Success,
		&s.Failure,
		&s.Skipped,
		&s.DistinctCells,
	); err != nil {
		return nil, fmt.Errorf("aggregating results: %w", err)
	}

	return &s, nil
}

func (r *sqlResultRepository) Close() error {
	return r.db.Close()
}
