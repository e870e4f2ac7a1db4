package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ResolvesPaths(t *testing.T) {
	sources := Default("/data/legacy")
	require.Len(t, sources, 19)
	seen := map[string]bool{}
	for _, s := range sources {
		assert.Equal(t, "/data/legacy", filepath.Dir(s.Path))
		assert.False(t, seen[s.Path], "duplicate catalog path %s", s.Path)
		seen[s.Path] = true
	}
}

func TestDefault_EveryEntityHasASource(t *testing.T) {
	sources := Default(".")
	for _, e := range Entities {
		found := false
		for _, s := range sources {
			if len(s.TablesFor(e)) > 0 {
				found = true
				break
			}
		}
		assert.True(t, found, "no catalog source for %s", e)
	}
}

func TestSource_Name(t *testing.T) {
	s := Source{Path: filepath.Join("a", "b", "greenhouse_jobs.db")}
	assert.Equal(t, "greenhouse_jobs", s.Name())
}
