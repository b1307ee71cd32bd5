// Package db is the optional Postgres store of airport coordinates used
// when neither the flight record nor the embedded iata table places an
// airport.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akashkottil/Flight-Tracker-V2-sub001/config"
	"github.com/akashkottil/Flight-Tracker-V2-sub001/iata"
	_ "github.com/lib/pq"
)

// ErrAirportNotFound is returned when the airports table has no row for a code.
var ErrAirportNotFound = errors.New("airport not found")

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	db *sql.DB
}

// ConnString builds the lib/pq keyword/value DSN for cfg.
func ConnString(cfg config.PostgresConfig) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (*PostgresDB, error) {
	db, err := sql.Open("postgres", ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &PostgresDB{db: db}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	return p.db.Close()
}

// GetDB returns the underlying database connection
func (p *PostgresDB) GetDB() *sql.DB {
	return p.db
}

// Ping checks the connection; used by the readiness check.
func (p *PostgresDB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// InitSchema initializes the database schema
func (p *PostgresDB) InitSchema() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS airports (
			code VARCHAR(3) PRIMARY KEY,
			city VARCHAR(255) NOT NULL DEFAULT '',
			timezone VARCHAR(64) NOT NULL DEFAULT '',
			latitude DECIMAL(10, 6) NOT NULL,
			longitude DECIMAL(10, 6) NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// SeedAirports upserts every airport of the embedded iata table and returns
// the number of rows written.
func (p *PostgresDB) SeedAirports(ctx context.Context) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO airports (code, city, timezone, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			city = EXCLUDED.city,
			timezone = EXCLUDED.timezone,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare airport upsert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, code := range iata.Codes() {
		loc := iata.IATATimeZone(code)
		if _, err := stmt.ExecContext(ctx, code, loc.City, loc.Tz, loc.Lat, loc.Lon); err != nil {
			return 0, fmt.Errorf("upsert airport %s: %w", code, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed tx: %w", err)
	}
	return n, nil
}

// UpsertAirport stores a single airport.
func (p *PostgresDB) UpsertAirport(ctx context.Context, code string, loc iata.Location) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO airports (code, city, timezone, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			city = EXCLUDED.city,
			timezone = EXCLUDED.timezone,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			updated_at = CURRENT_TIMESTAMP
	`, normalizeCode(code), loc.City, loc.Tz, loc.Lat, loc.Lon)
	if err != nil {
		return fmt.Errorf("upsert airport %s: %w", code, err)
	}
	return nil
}

// AirportLocation returns the stored location of code.
func (p *PostgresDB) AirportLocation(ctx context.Context, code string) (iata.Location, error) {
	var loc iata.Location
	err := p.db.QueryRowContext(ctx,
		`SELECT city, timezone, latitude, longitude FROM airports WHERE code = $1`,
		normalizeCode(code),
	).Scan(&loc.City, &loc.Tz, &loc.Lat, &loc.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return iata.Location{}, fmt.Errorf("airport %s: %w", code, ErrAirportNotFound)
	}
	if err != nil {
		return iata.Location{}, fmt.Errorf("query airport %s: %w", code, err)
	}
	return loc, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
