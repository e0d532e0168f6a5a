package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS job_postings (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    location        TEXT NOT NULL DEFAULT '',
    required_skills TEXT NOT NULL DEFAULT '',
    salary_min      INTEGER NOT NULL DEFAULT 0,
    salary_max      INTEGER NOT NULL DEFAULT 0,
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type DB struct {
	connection *sql.DB
}

func NewDB(ctx context.Context, dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		slog.Error("error closing the database connection", "error", err)
	}
}

// EnsureSchema creates the job_postings table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create job_postings table: %w", err)
	}
	return nil
}

// ListJobPostings returns every posting ordered by id.
func (db *DB) ListJobPostings(ctx context.Context) ([]JobPosting, error) {
	query := `SELECT id, title, location, required_skills, salary_min, salary_max, updated_at
              FROM job_postings ORDER BY id`

	rows, err := db.connection.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	postings := []JobPosting{}
	for rows.Next() {
		var p JobPosting
		var skills string
		if err := rows.Scan(&p.ID, &p.Title, &p.Location, &skills, &p.SalaryMin, &p.SalaryMax, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.RequiredSkills = splitAndTrim(skills)
		postings = append(postings, p)
	}
	return postings, rows.Err()
}

// UpsertJobPostings writes all postings in one transaction.
func (db *DB) UpsertJobPostings(ctx context.Context, postings []JobPosting) error {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO job_postings (id, title, location, required_skills, salary_min, salary_max, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, NOW())
              ON CONFLICT (id) DO UPDATE
                SET title = EXCLUDED.title,
                    location = EXCLUDED.location,
                    required_skills = EXCLUDED.required_skills,
                    salary_min = EXCLUDED.salary_min,
                    salary_max = EXCLUDED.salary_max,
                    updated_at = EXCLUDED.updated_at`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range postings {
		if _, err := stmt.ExecContext(ctx,
			p.ID,
			p.Title,
			p.Location,
			joinSkills(p.RequiredSkills),
			p.SalaryMin,
			p.SalaryMax,
		); err != nil {
			return fmt.Errorf("failed to upsert job posting %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

// DeleteJobPosting removes one posting. Missing ids are not an error.
func (db *DB) DeleteJobPosting(ctx context.Context, id string) error {
	_, err := db.connection.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	return err
}

// skills are stored comma-separated, so commas inside a name are dropped
func joinSkills(skills []string) string {
	clean := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
		if s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, ",")
}

// helper to split comma-separated skills
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
