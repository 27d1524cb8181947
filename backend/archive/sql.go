// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder style and driver.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS results (
		game_id TEXT PRIMARY KEY,
		seed BIGINT NOT NULL,
		away_team TEXT NOT NULL,
		home_team TEXT NOT NULL,
		away_score INTEGER NOT NULL,
		home_score INTEGER NOT NULL,
		innings INTEGER NOT NULL,
		decision_log TEXT NOT NULL,
		finished_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at)`,
}

type sqlRepository struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn and applies migrations. A dsn starting with
// postgres:// or postgresql:// selects Postgres; anything else is a SQLite
// file path.
func Open(ctx context.Context, dsn string) (Repository, error) {
	dialect := DialectSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialect = DialectPostgres
	}
	dsn = strings.TrimPrefix(dsn, "sqlite://")

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One writer at a time.
		db.SetMaxOpenConns(1)
	}
	repo, err := NewSQLRepository(ctx, db, dialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepository wraps an open database and migrates it.
func NewSQLRepository(ctx context.Context, db *sql.DB, dialect Dialect) (Repository, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &sqlRepository{db: db, dialect: dialect}, nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (r *sqlRepository) rebind(q string) string {
	if r.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (r *sqlRepository) SaveResult(ctx context.Context, res Result) error {
	log := res.DecisionLog
	if log == nil {
		log = []string{}
	}
	encoded, err := json.Marshal(log)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.rebind(`INSERT INTO results
		(game_id, seed, away_team, home_team, away_score, home_score, innings, decision_log, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		res.GameID, int64(res.Seed), res.Teams[0], res.Teams[1], res.Score[0], res.Score[1],
		res.Innings, string(encoded), res.FinishedAt.UnixNano())
	if isUniqueViolation(err) {
		return ErrResultExists
	}
	if err != nil {
		return fmt.Errorf("insert result %s: %w", res.GameID, err)
	}
	return nil
}

const selectColumns = `SELECT game_id, seed, away_team, home_team, away_score, home_score, innings, decision_log, finished_at FROM results`

func (r *sqlRepository) GetResult(ctx context.Context, gameID string) (Result, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(selectColumns+` WHERE game_id = ?`), gameID)
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrResultNotFound
	}
	return res, err
}

func (r *sqlRepository) ListResults(ctx context.Context, limit int) ([]Result, error) {
	q := selectColumns + ` ORDER BY finished_at DESC, game_id ASC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, r.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var (
		res      Result
		seed     int64
		log      string
		finished int64
	)
	if err := row.Scan(&res.GameID, &seed, &res.Teams[0], &res.Teams[1], &res.Score[0], &res.Score[1],
		&res.Innings, &log, &finished); err != nil {
		return Result{}, err
	}
	res.Seed = uint32(seed)
	res.FinishedAt = time.Unix(0, finished).UTC()
	if err := json.Unmarshal([]byte(log), &res.DecisionLog); err != nil {
		return Result{}, fmt.Errorf("result %s: decision log: %w", res.GameID, err)
	}
	if res.DecisionLog == nil {
		res.DecisionLog = []string{}
	}
	return res, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
