package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Database persists per-guild settings and the audit run history.
type Database struct {
	db *sql.DB
}

// Open creates the SQLite database and its schema.
func Open(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	d := &Database{db: db}
	if err := d.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return d, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d != nil && d.db != nil {
		return d.db.Close()
	}
	return nil
}

// createTables creates all necessary database tables
func (d *Database) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS guild_settings (
		guild_id TEXT PRIMARY KEY,
		language TEXT DEFAULT 'en',
		updated_at INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS audit_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		mode TEXT NOT NULL,
		band TEXT NOT NULL,
		critical_count INTEGER NOT NULL,
		medium_count INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_runs_guild ON audit_runs(guild_id);
	CREATE INDEX IF NOT EXISTS idx_audit_runs_created ON audit_runs(created_at);
	`

	_, err := d.db.Exec(schema)
	return err
}

// SetGuildLanguage stores the report language for a guild.
func (d *Database) SetGuildLanguage(guildID, language string) error {
	_, err := d.db.Exec(`
		INSERT INTO guild_settings (guild_id, language, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(guild_id) DO UPDATE SET language = excluded.language, updated_at = excluded.updated_at`,
		guildID, language, time.Now().Unix())
	return err
}

// GuildLanguages returns every stored guild language mapping.
func (d *Database) GuildLanguages() (map[string]string, error) {
	rows, err := d.db.Query(`SELECT guild_id, language FROM guild_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	langs := make(map[string]string)
	for rows.Next() {
		var guildID, language string
		if err := rows.Scan(&guildID, &language); err != nil {
			return nil, err
		}
		langs[guildID] = language
	}
	return langs, rows.Err()
}

// RecordRun appends one audit run to the history.
func (d *Database) RecordRun(run AuditRun) error {
	_, err := d.db.Exec(`
		INSERT INTO audit_runs (guild_id, mode, band, critical_count, medium_count, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.GuildID, run.Mode, run.Band, run.CriticalCount, run.MediumCount, run.DurationMs, run.CreatedAt)
	return err
}

// RecentRuns returns the newest audit runs for a guild, newest first.
func (d *Database) RecentRuns(guildID string, limit int) ([]AuditRun, error) {
	rows, err := d.db.Query(`
		SELECT id, guild_id, mode, band, critical_count, medium_count, duration_ms, created_at
		FROM audit_runs WHERE guild_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`,
		guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []AuditRun
	for rows.Next() {
		var run AuditRun
		if err := rows.Scan(&run.ID, &run.GuildID, &run.Mode, &run.Band,
			&run.CriticalCount, &run.MediumCount, &run.DurationMs, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
