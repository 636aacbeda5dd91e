package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	ledger, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, ledger.Repo)
	assert.Empty(t, ledger.Issues)
}

func TestLoadDefaultsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	ledger, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, ledger.Repo)
	assert.NotNil(t, ledger.Issues)
}

func TestLoadRejectsWrongShape(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"top level array", `[1, 2]`},
		{"top level string", `"hello"`},
		{"top level null", `null`},
		{"issues not an object", `{"repo": "a/b", "issues": [1]}`},
		{"invalid json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mapping.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			var formatErr *FormatError
			assert.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "mapping.json")

	ledger := New()
	ledger.Bind("acme/widgets")
	ledger.Issues["bd-1"] = 55
	ledger.Issues["bd-2"] = 56

	require.NoError(t, Save(path, ledger))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ledger, loaded)
}

func TestSaveDeterministic(t *testing.T) {
	dir := t.TempDir()
	ledger := New()
	ledger.Bind("acme/widgets")
	ledger.Issues["zz"] = 2
	ledger.Issues["aa"] = 1

	pathA := filepath.Join(dir, "a.json")
	pathB := filepath.Join(dir, "b.json")
	require.NoError(t, Save(pathA, ledger))
	require.NoError(t, Save(pathB, ledger))

	a, err := os.ReadFile(pathA)
	require.NoError(t, err)
	b, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// human-diffable: sorted keys, indented, trailing newline
	assert.Contains(t, string(a), "\"aa\": 1")
	assert.Less(t, strings.Index(string(a), "\"aa\""), strings.Index(string(a), "\"zz\""))
	assert.True(t, len(a) > 0 && a[len(a)-1] == '\n')
}

func TestCheckRepo(t *testing.T) {
	ledger := New()
	assert.NoError(t, ledger.CheckRepo("acme/widgets"), "unbound ledger accepts any repo")

	ledger.Bind("a/b")
	assert.NoError(t, ledger.CheckRepo("a/b"))

	err := ledger.CheckRepo("c/d")
	var mismatch *RepoMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "a/b", mismatch.Bound)
	assert.Equal(t, "c/d", mismatch.Current)
}

func TestSaveWritesRepoNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	require.NoError(t, Save(path, New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"repo": null`)
}
