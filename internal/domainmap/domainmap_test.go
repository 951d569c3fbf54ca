package domainmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`
domains:
  infrastructure: [PLAT, OPS]
  commerce: [PAY]
  empty: []
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"commerce", "empty", "infrastructure"}, m.Domains())
	assert.Equal(t, []string{"PLAT", "OPS"}, m.TeamsForDomain("infrastructure"))
	assert.Equal(t, []string{"PLAT", "OPS"}, m.TeamsForDomain("Infrastructure"))
	assert.Nil(t, m.TeamsForDomain("empty"))
	assert.Nil(t, m.TeamsForDomain("unknown"))
}

func TestParseDropsBlankEntries(t *testing.T) {
	m, err := Parse([]byte(`
domains:
  infra: ["PLAT", "  ", ""]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"PLAT"}, m.TeamsForDomain("infra"))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("domains: [not: a: map"))
	require.Error(t, err)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, m.Domains())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.yaml")
	require.NoError(t, os.WriteFile(path, []byte("domains:\n  growth: [GRW]\n"), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"GRW"}, m.TeamsForDomain("growth"))
}
