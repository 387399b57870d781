package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const simpleFixture = `{
  "root": {"id": "A", "versionRange": "[1.0.0]", "targetFramework": "net8.0"},
  "packages": [
    {"id": "A", "version": "1.0.0", "dependencies": [
      {"id": "B", "versionRange": "[1.0.0]"},
      {"id": "C", "versionRange": "[2.0.0]"}
    ]},
    {"id": "B", "version": "1.0.0", "dependencies": [
      {"id": "C", "versionRange": "[1.0.0]"}
    ]},
    {"id": "C", "version": "1.0.0"},
    {"id": "C", "version": "2.0.0"}
  ]
}`

const unresolvedFixture = `{
  "root": {"id": "A", "versionRange": "[1.0.0]", "targetFramework": "net8.0"},
  "packages": [
    {"id": "A", "version": "1.0.0", "dependencies": [
      {"id": "Missing", "versionRange": "[1.0.0]"}
    ]}
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveCommand_CousinConflictResolves(t *testing.T) {
	path := writeFixture(t, simpleFixture)

	cmd := newRootCommand()
	cmd.SetArgs([]string{"resolve", path})
	require.NoError(t, cmd.Execute())
}

func TestResolveCommand_UnresolvedWithoutFlagFails(t *testing.T) {
	path := writeFixture(t, unresolvedFixture)

	cmd := newRootCommand()
	cmd.SetArgs([]string{"resolve", path})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestResolveCommand_UnresolvedWithFlagSucceeds(t *testing.T) {
	path := writeFixture(t, unresolvedFixture)

	cmd := newRootCommand()
	cmd.SetArgs([]string{"resolve", path, "--allow-unresolved"})
	require.NoError(t, cmd.Execute())
}

func TestGraphShowCommand_PrintsRawGraph(t *testing.T) {
	path := writeFixture(t, simpleFixture)

	cmd := newRootCommand()
	cmd.SetArgs([]string{"graph", "show", path})
	require.NoError(t, cmd.Execute())
}

func TestResolveCommand_MissingFixtureFails(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"resolve", filepath.Join(t.TempDir(), "nope.json")})
	require.Error(t, cmd.Execute())
}
