package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themobileprof/vocalis/pkg/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created: %s", dbPath)
	}
	if err := db.conn.Ping(); err != nil {
		t.Errorf("Database connection is not valid: %v", err)
	}
	if db.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, db.Path())
	}
}

func TestMigrate(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"interactions", "settings"} {
		var count int
		err := db.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Errorf("Failed to query table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("Table %s does not exist after migration", table)
		}
	}

	// Migrations are idempotent
	if err := db.Migrate(); err != nil {
		t.Errorf("Second migration failed: %v", err)
	}
}

func TestSettings(t *testing.T) {
	db := setupTestDB(t)

	if err := db.SetSetting("threshold", "0.1"); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}
	retrieved, err := db.GetSetting("threshold")
	if err != nil {
		t.Fatalf("Failed to get setting: %v", err)
	}
	if retrieved != "0.1" {
		t.Errorf("Expected 0.1, got %s", retrieved)
	}

	if err := db.SetSetting("threshold", "0.2"); err != nil {
		t.Fatalf("Failed to update setting: %v", err)
	}
	retrieved, _ = db.GetSetting("threshold")
	if retrieved != "0.2" {
		t.Errorf("Expected 0.2, got %s", retrieved)
	}

	retrieved, err = db.GetSetting("nonexistent")
	if err != nil {
		t.Fatalf("Unexpected error for non-existent key: %v", err)
	}
	if retrieved != "" {
		t.Errorf("Expected empty string for non-existent key, got %s", retrieved)
	}
}

func TestLogResultAndHistory(t *testing.T) {
	db := setupTestDB(t)

	first := &models.NLPResult{
		Input:      "set brightness to 50%",
		Intent:     models.IntentSystemControl,
		Confidence: 0.7,
		Entities:   models.Entities{"brightness": 50},
	}
	id, err := db.LogResult("session-1", first, models.Action{Kind: models.ActionSetBrightness, Reply: "Setting brightness to 50%"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	second := &models.NLPResult{
		Input:      "what's the weather like in new york",
		Intent:     models.IntentWeather,
		Confidence: 0.43,
		Entities:   models.Entities{"city": "new york"},
	}
	_, err = db.LogResult("session-1", second, models.Action{Kind: models.ActionWeather})
	require.NoError(t, err)

	_, err = db.LogResult("session-2", &models.NLPResult{Input: "blah", Intent: models.IntentGeneralQuery}, models.Action{Kind: models.ActionChat})
	require.NoError(t, err)

	entries, err := db.RecentResults(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, models.IntentGeneralQuery, entries[0].Intent)
	assert.Equal(t, models.Entities{}, entries[0].Entities)
	assert.Equal(t, "session-2", entries[0].SessionID)

	assert.Equal(t, second.Input, entries[1].Input)
	assert.Equal(t, models.Entities{"city": "new york"}, entries[1].Entities)
	assert.Equal(t, models.ActionWeather, entries[1].Action)
	assert.False(t, entries[1].CreatedAt.IsZero())

	all, err := db.RecentResults(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	level, ok := all[2].Entities.GetInt("brightness")
	assert.True(t, ok)
	assert.Equal(t, 50, level)

	counts, err := db.IntentCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.IntentWeather])
	assert.Equal(t, 1, counts[models.IntentSystemControl])

	require.NoError(t, db.ClearHistory())
	entries, err = db.RecentResults(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConcurrentAccess(t *testing.T) {
	db := setupTestDB(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			res := &models.NLPResult{Input: "check internet speed", Intent: models.IntentInternetSpeed, Confidence: 1}
			if _, err := db.LogResult("concurrent", res, models.Action{Kind: models.ActionSpeedTest}); err != nil {
				t.Errorf("Concurrent write %d failed: %v", id, err)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	entries, err := db.RecentResults(100)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(entries))
	}
}
