package db

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/themobileprof/vocalis/pkg/models"
)

//go:embed migration.sql
var migrationSQL string

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	// Pure Go driver, no CGO required
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(1) // SQLite works best with single connection
	conn.SetMaxIdleConns(1)

	db := &DB{
		conn: conn,
		path: dbPath,
	}

	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(migrationSQL)
	if err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// GetSetting retrieves a setting value
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting updates or inserts a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = strftime('%s', 'now')
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// LogResult stores a processed utterance and the action planned for it
func (db *DB) LogResult(sessionID string, res *models.NLPResult, action models.Action) (int64, error) {
	entities := res.Entities
	if entities == nil {
		entities = models.Entities{}
	}
	data, err := json.Marshal(entities)
	if err != nil {
		return 0, fmt.Errorf("failed to encode entities: %w", err)
	}

	result, err := db.conn.Exec(`
		INSERT INTO interactions (session_id, input, intent, confidence, entities, action, reply)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sessionID, res.Input, string(res.Intent), res.Confidence, string(data), string(action.Kind), action.Reply)
	if err != nil {
		return 0, fmt.Errorf("failed to log result: %w", err)
	}
	return result.LastInsertId()
}

// RecentResults returns the latest interactions, newest first
func (db *DB) RecentResults(limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, session_id, input, intent, confidence, entities, action, reply, created_at
		FROM interactions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			e        models.HistoryEntry
			intent   string
			entities string
			action   string
			created  int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Input, &intent, &e.Confidence, &entities, &action, &e.Reply, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Intent = models.Intent(intent)
		e.Action = models.ActionKind(action)
		e.CreatedAt = time.Unix(created, 0)
		if e.Entities, err = decodeEntities(entities); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// IntentCounts returns how often each intent was recorded
func (db *DB) IntentCounts() (map[models.Intent]int, error) {
	rows, err := db.conn.Query("SELECT intent, COUNT(*) FROM interactions GROUP BY intent")
	if err != nil {
		return nil, fmt.Errorf("failed to count intents: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Intent]int)
	for rows.Next() {
		var intent string
		var n int
		if err := rows.Scan(&intent, &n); err != nil {
			return nil, fmt.Errorf("failed to scan intent count: %w", err)
		}
		counts[models.Intent(intent)] = n
	}
	return counts, rows.Err()
}

// ClearHistory removes all stored interactions
func (db *DB) ClearHistory() error {
	if _, err := db.conn.Exec("DELETE FROM interactions"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// decodeEntities restores integer slots, which JSON decodes as float64
func decodeEntities(data string) (models.Entities, error) {
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}
	out := make(models.Entities, len(raw))
	for k, v := range raw {
		if f, ok := v.(float64); ok && f == math.Trunc(f) {
			out[k] = int(f)
			continue
		}
		out[k] = v
	}
	return out, nil
}
