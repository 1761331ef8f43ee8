package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/internal/cli/config"
	"github.com/gridlens-labs/gridlens/internal/cli/output"
	"github.com/gridlens-labs/gridlens/internal/state"
)

// seedJournal creates a state database with one finished and one running
// run, returning its path and the finished run's id.
func seedJournal(t *testing.T) (string, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.db")
	store := state.NewStore()
	require.NoError(t, store.Open(path))
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate())

	done, err := store.StartRun(state.KindBEA, `{"table":"CAINC1"}`)
	require.NoError(t, err)
	require.NoError(t, store.FinishRun(done.ID, 52, state.RunStatusSuccess, ""))

	// Distinct started_at keeps the newest-first order deterministic.
	time.Sleep(5 * time.Millisecond)
	_, err = store.StartRun(state.KindPlaces, "")
	require.NoError(t, err)

	return path, done.ID
}

func runsEnv(t *testing.T, statePath string) {
	t.Helper()
	config.ResetConfig()
	t.Setenv("GRIDLENS_STATE_PATH", statePath)
	t.Setenv("GRIDLENS_OUTPUT", "json")
}

func TestRunsListCommand(t *testing.T) {
	path, doneID := seedJournal(t)
	runsEnv(t, path)

	buf := new(bytes.Buffer)
	cmd := NewRunsCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	var out output.RunsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 2, out.Count)

	// Newest first, so the still-running places run leads.
	assert.Equal(t, "places", out.Runs[0].Kind)
	assert.Equal(t, "running", out.Runs[0].Status)
	assert.Empty(t, out.Runs[0].CompletedAt)

	assert.Equal(t, doneID, out.Runs[1].ID)
	assert.Equal(t, "bea", out.Runs[1].Kind)
	assert.Equal(t, "success", out.Runs[1].Status)
	assert.Equal(t, int64(52), out.Runs[1].Rows)
	assert.NotEmpty(t, out.Runs[1].CompletedAt)
}

func TestRunsListCommand_MissingJournal(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nope", "state.db")
	runsEnv(t, statePath)

	buf := new(bytes.Buffer)
	cmd := NewRunsCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	var out output.RunsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Empty(t, out.Runs)

	// Listing must not create the journal as a side effect.
	assert.NoFileExists(t, statePath)
}

func TestRunsListCommand_MissingJournalText(t *testing.T) {
	config.ResetConfig()
	t.Setenv("GRIDLENS_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("GRIDLENS_OUTPUT", "text")

	buf := new(bytes.Buffer)
	cmd := NewRunsCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "No runs recorded yet")
}

func TestRunsShowCommand(t *testing.T) {
	path, doneID := seedJournal(t)
	runsEnv(t, path)

	buf := new(bytes.Buffer)
	cmd := NewRunsCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"show", doneID})
	require.NoError(t, cmd.Execute())

	var info output.RunInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, doneID, info.ID)
	assert.Equal(t, "bea", info.Kind)
	assert.Equal(t, `{"table":"CAINC1"}`, info.Params)
	assert.Equal(t, int64(52), info.Rows)
	assert.NotEmpty(t, info.StartedAt)
	assert.NotEmpty(t, info.CompletedAt)
}

func TestRunsShowCommand_NotFound(t *testing.T) {
	path, _ := seedJournal(t)
	runsEnv(t, path)

	cmd := NewRunsCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"show", "nope"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestRunDuration(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(1500 * time.Millisecond)

	running := &state.Run{StartedAt: started}
	assert.Equal(t, "-", runDuration(running))

	finished := &state.Run{StartedAt: started, CompletedAt: &completed}
	assert.Equal(t, "1.5s", runDuration(finished))
}

func TestRunInfo(t *testing.T) {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(2 * time.Second)

	run := &state.Run{
		ID:          "r1",
		Kind:        state.KindBEA,
		Status:      state.RunStatusError,
		Rows:        0,
		StartedAt:   started,
		CompletedAt: &completed,
		Error:       "boom",
	}

	info := runInfo(run)
	assert.Equal(t, "r1", info.ID)
	assert.Equal(t, "2026-03-01T10:00:00Z", info.StartedAt)
	assert.Equal(t, "2026-03-01T10:00:02Z", info.CompletedAt)
	assert.Equal(t, "boom", info.Error)
}
