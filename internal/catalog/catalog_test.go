package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.Equal(t, 7, c.Len())
	for i, s := range c.Scenes() {
		assert.Equal(t, i+1, s.Index, "scene %q index", s.Title)
	}
	assert.Equal(t, 7, c.TotalAsides())
	assert.Equal(t, 5, c.TotalCoffee())

	moving, ok := c.Scene(4)
	require.True(t, ok)
	assert.False(t, moving.HasAsides)

	deploy, ok := c.Scene(3)
	require.True(t, ok)
	assert.True(t, deploy.HasAsides)
}

func TestSceneOutOfRange(t *testing.T) {
	c := Default()
	_, ok := c.Scene(0)
	assert.False(t, ok)
	_, ok = c.Scene(c.Len() + 1)
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "version: 1\nscenes: []\n"},
		{"bad version", "version: 3\nscenes:\n  - title: a\n"},
		{"duplicate aside", "scenes:\n  - title: a\n    asides:\n      - id: x\n      - id: x\n"},
		{"missing aside id", "scenes:\n  - title: a\n    asides:\n      - title: no id\n"},
		{"not yaml", "scenes: [::"},
		{"bad min_player", "min_player: 1.2\nscenes:\n  - title: a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	doc := "scenes:\n  - title: One\n  - title: Two\n    has_asides: true\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	two, _ := c.Scene(2)
	assert.True(t, two.HasAsides)
	assert.Equal(t, 0, c.TotalAsides())
}

func TestItemKey(t *testing.T) {
	assert.Equal(t, "scene-3-rollback", ItemKey(3, "rollback"))
}

func TestTransitionLength(t *testing.T) {
	c := Default()
	assert.Equal(t, 5*time.Second, c.TransitionLength(1))
	assert.Equal(t, 4500*time.Millisecond, c.TransitionLength(2))
	assert.Zero(t, c.TransitionLength(c.Len()), "nothing leads out of the last scene")
	assert.Zero(t, c.TransitionLength(0))
}

func TestSupports(t *testing.T) {
	c, err := Parse([]byte("min_player: v0.4.0\nscenes:\n  - title: a\n"))
	require.NoError(t, err)
	assert.Equal(t, "v0.4.0", c.MinPlayer())

	tests := []struct {
		version string
		want    bool
	}{
		{"v0.3.9", false},
		{"v0.4.0", true},
		{"v1.0.0", true},
		{"(devel)", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Supports(tt.version), tt.version)
	}
	assert.True(t, Default().Supports("v0.0.1"), "no minimum set")
}
