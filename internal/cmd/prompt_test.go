package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptCmd(input string) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(input))
	cmd.SetErr(&strings.Builder{})
	return cmd
}

func TestConfirmWriteSkipsWithDangerousInline(t *testing.T) {
	target := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	assert.NoError(t, confirmWrite(promptCmd(""), true, target))
}

func TestConfirmWriteNewFileDoesNotPrompt(t *testing.T) {
	target := filepath.Join(t.TempDir(), "absent")
	assert.NoError(t, confirmWrite(promptCmd(""), false, target))
}

func TestConfirmWriteAcceptsYes(t *testing.T) {
	target := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	assert.NoError(t, confirmWrite(promptCmd("y\n"), false, target))
	assert.NoError(t, confirmWrite(promptCmd("YES\n"), false, target))
}

func TestConfirmWriteDeclines(t *testing.T) {
	target := filepath.Join(t.TempDir(), "existing")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	assert.Error(t, confirmWrite(promptCmd("n\n"), false, target))
	assert.Error(t, confirmWrite(promptCmd("\n"), false, target))
	assert.Error(t, confirmWrite(promptCmd(""), false, target))
}

func TestConfirmWriteRejectsDirectoryTarget(t *testing.T) {
	err := confirmWrite(promptCmd("y\n"), false, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}
