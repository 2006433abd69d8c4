package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidFixture(t *testing.T) {
	path := writeChainFixture(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "chain: 3 entities, 2 links\n", buf.String())
}

func TestValidateValidFixtureJSON(t *testing.T) {
	path := writeChainFixture(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chain", data["name"])
	assert.Equal(t, float64(3), data["entities"])
	assert.Equal(t, float64(2), data["links"])
}

func TestValidateDanglingLink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	bad := `name: bad
entities:
  - id: e1
    attrs: [A]
links:
  - {kind: parent-of, from: e1, to: ghost}
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "INVALID_FIXTURE")
	assert.Contains(t, buf.String(), "ghost")
}

func TestValidateDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.yaml")
	dup := `name: dup
entities:
  - id: e1
    attrs: [A]
  - id: e1
    attrs: [B]
`
	require.NoError(t, os.WriteFile(path, []byte(dup), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "duplicate")
}

func TestValidateUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "unsupported fixture format")
}
