package matrix

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManifest(t *testing.T) Manifest {
	t.Helper()

	entries := make(map[string]ResolvedConfig)
	order := []string{"ubuntu-focal-standard", "fedora-31-standard"}
	for _, env := range order {
		cfg, err := Resolve(env, Overrides{})
		require.NoError(t, err)
		entries[env] = cfg
	}
	return Manifest{Order: order, Entries: entries}
}

func TestManifestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "matrix.json")
	want := testManifest(t)

	require.NoError(t, WriteManifest(path, want))

	got, err := ReadManifest(path)
	require.NoError(t, err)

	// Read order is lexical, independent of write order.
	assert.Equal(t, []string{"fedora-31-standard", "ubuntu-focal-standard"}, got.Order)
	assert.Equal(t, want.Entries, got.Entries)
}

func TestWriteManifestPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.json")
	require.NoError(t, WriteManifest(path, testManifest(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	ubuntu := strings.Index(string(raw), `"ubuntu-focal-standard"`)
	fedora := strings.Index(string(raw), `"fedora-31-standard"`)
	require.NotEqual(t, -1, ubuntu)
	require.NotEqual(t, -1, fedora)
	assert.Less(t, ubuntu, fedora, "keys written in manifest order")
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
