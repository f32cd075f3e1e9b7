package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}

func TestSlotListShowsEmptySlots(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "slot", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged in: 0/5")
	assert.Contains(t, stdout, "(empty)")
}

func TestSlotListShowsCapturedSession(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeSlotsFixture(home, "navertester", time.Now().Add(-2*time.Hour)))

	stdout, _, err := executeCLI(t, home, "slot", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged in: 1/5")
	assert.Contains(t, stdout, "navertester")
}

func TestSlotResetRequiresExactlyOneTarget(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "slot", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --slot or --all")

	_, _, err = executeCLI(t, t.TempDir(), "slot", "reset", "--slot", "1", "--all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of --slot or --all")
}

func TestSlotResetClearsCapturedSession(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeSlotsFixture(home, "navertester", time.Now()))

	stdout, _, err := executeCLI(t, home, "slot", "reset", "--slot", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "slot 1 cleared")

	stdout, _, err = executeCLI(t, home, "slot", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "logged in: 0/5")
}

func TestBoardSetAndList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"board", "set", "https://cafe.naver.com/f-e/cafes/27433401/menus/17?viewType=T",
		"--account", "navertester",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "cafe 27433401, board 17")

	stdout, _, err = executeCLI(t, home, "board", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "navertester")
	assert.Contains(t, stdout, "27433401")
}

func TestBoardSetRejectsUnrecognizedURL(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(),
		"board", "set", "https://cafe.naver.com/somewhere-else",
		"--account", "navertester",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized board URL")
}

func TestTaskAddRequiresPromptFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "task", "add", "--account", "navertester")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"prompt\" not set")
}

func TestTaskAddAndList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"task", "add",
		"--account", "navertester",
		"--prompt", "write about the weekly meetup",
		"--title", "evening batch",
		"--count", "2",
		"--in", "30m",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "task_")

	stdout, _, err = executeCLI(t, home, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "evening batch (x2)")
	assert.Contains(t, stdout, "pending")
}

func TestTaskDeleteUnknownTask(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "task", "delete", "task_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

func TestSettingsPromptShowsDefault(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "settings", "prompt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "community cafe board")
}

func TestSettingsPromptSetAndShow(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "settings", "prompt", "--set", "Write like a regular.")
	require.NoError(t, err)
	assert.Contains(t, stdout, "system prompt updated")

	stdout, _, err = executeCLI(t, home, "settings", "prompt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Write like a regular.")
}

func TestSettingsKeyStoresSecret(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "settings", "key", "--value", "sk-test-123")
	require.NoError(t, err)
	assert.Contains(t, stdout, "api key stored under")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSlotsFixture(home, userID string, loginTime time.Time) error {
	dataDir := filepath.Join(home, ".cafemate")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return err
	}

	type slotRecord struct {
		ID         int               `json:"id"`
		UserID     string            `json:"userId,omitempty"`
		IsLoggedIn bool              `json:"isLoggedIn"`
		Timestamp  string            `json:"timestamp,omitempty"`
		Cookies    map[string]string `json:"cookies,omitempty"`
	}

	slots := []slotRecord{
		{
			ID:         1,
			UserID:     userID,
			IsLoggedIn: true,
			Timestamp:  loginTime.Format(time.RFC3339),
			Cookies:    map[string]string{"NID_AUT": "aut", "NID_SES": "ses"},
		},
		{ID: 2}, {ID: 3}, {ID: 4}, {ID: 5},
	}

	payload, err := json.MarshalIndent(map[string]any{
		"lastUpdated": loginTime.Format(time.RFC3339),
		"slots":       slots,
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dataDir, "slots.json"), payload, 0o600)
}
