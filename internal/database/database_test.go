package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGuildLanguageUpsert(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SetGuildLanguage("g1", "fr"))
	require.NoError(t, db.SetGuildLanguage("g2", "de"))
	require.NoError(t, db.SetGuildLanguage("g1", "es"))

	langs, err := db.GuildLanguages()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"g1": "es", "g2": "de"}, langs)
}

func TestGuildLanguagesEmpty(t *testing.T) {
	db := openTestDB(t)

	langs, err := db.GuildLanguages()
	require.NoError(t, err)
	assert.Empty(t, langs)
}

func TestRecentRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.RecordRun(AuditRun{
			GuildID:       "g1",
			Mode:          "parallel",
			Band:          "medium",
			CriticalCount: i,
			MediumCount:   1,
			DurationMs:    42,
			CreatedAt:     int64(100 + i),
		}))
	}
	require.NoError(t, db.RecordRun(AuditRun{GuildID: "other", Band: "low", Mode: "paced", CreatedAt: 999}))

	runs, err := db.RecentRuns("g1", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(102), runs[0].CreatedAt)
	assert.Equal(t, 2, runs[0].CriticalCount)
	assert.Equal(t, int64(101), runs[1].CreatedAt)
	for _, run := range runs {
		assert.Equal(t, "g1", run.GuildID)
	}
}
