package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baderouaich/the-zero-overhead-principle/internal/store"
)

func TestHistoryCommand_MissingDatabase(t *testing.T) {
	_, err := execute(t, "history", "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestHistoryCommand_EmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "zop.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryCommand_ListsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "zop.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.RecordRun(context.Background(), store.Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Profile:   "gc",
		Verdict:   "overhead",
		Gap:       3,
		Artifacts: []store.ArtifactRow{
			{Variant: "plain", Path: "p.s", InstructionCount: 8, ContentHash: "deadbeefdeadbeef"},
			{Variant: "abstraction", Path: "a.s", InstructionCount: 11, ContentHash: "cafebabecafebabe"},
		},
	}))
	require.NoError(t, st.Close())

	out, err := execute(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "verdict=overhead gap=+3")
	assert.Contains(t, out, "abstraction")

	jsonOut, err := execute(t, "--format", "json", "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, jsonOut, `"verdict": "overhead"`)
	assert.Contains(t, jsonOut, `"instruction_count": 11`)
}
