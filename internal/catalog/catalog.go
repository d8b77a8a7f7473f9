// Package catalog holds the static, ordered list of scenes that make up the story.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

//go:embed scenes.yaml
var defaultScenes []byte

// Aside is a clickable sub-element within a scene that opens a micro-story.
type Aside struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Story string `yaml:"story"`
}

// Scene is one discrete step of the narrative. Index is 1-based.
type Scene struct {
	Index     int      `yaml:"-"`
	Title     string   `yaml:"title"`
	HasAsides bool     `yaml:"has_asides"`
	Asides    []Aside  `yaml:"asides"`
	Coffee    []string `yaml:"coffee"`

	// TransitionSeconds is the length of the video leading out of this
	// scene to the next one. Zero means unknown.
	TransitionSeconds float64 `yaml:"transition_seconds"`
}

// Catalog is an immutable, ordered scene list. Scene indices are contiguous from 1.
type Catalog struct {
	scenes    []Scene
	minPlayer string
}

type catalogFile struct {
	Version int     `yaml:"version"`
	Scenes  []Scene `yaml:"scenes"`

	// MinPlayer is the oldest player release, as a semver tag, that can
	// play this catalog.
	MinPlayer string `yaml:"min_player"`
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultScenes)
	if err != nil {
		panic(fmt.Sprintf("embedded scene catalog: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file on disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document. Indices are assigned by position.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if f.Version != 0 && f.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version: %d", f.Version)
	}
	if f.MinPlayer != "" && !semver.IsValid(f.MinPlayer) {
		return nil, fmt.Errorf("invalid min_player %q: want a version like v1.2.0", f.MinPlayer)
	}
	c, err := New(f.Scenes)
	if err != nil {
		return nil, err
	}
	c.minPlayer = f.MinPlayer
	return c, nil
}

// MinPlayer returns the oldest supported player release, or "".
func (c *Catalog) MinPlayer() string {
	return c.minPlayer
}

// Supports reports whether a player at version can play the catalog.
// Development builds, which carry no semver tag, are always allowed.
func (c *Catalog) Supports(version string) bool {
	if c.minPlayer == "" || !semver.IsValid(version) {
		return true
	}
	return semver.Compare(version, c.minPlayer) >= 0
}

// New builds a catalog from scenes in story order, assigning 1-based indices.
func New(scenes []Scene) (*Catalog, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("catalog has no scenes")
	}

	out := make([]Scene, len(scenes))
	var errs []string
	for i, s := range scenes {
		s.Index = i + 1
		if len(s.Asides) > 0 {
			s.HasAsides = true
		}
		seen := make(map[string]bool, len(s.Asides))
		for _, a := range s.Asides {
			if a.ID == "" {
				errs = append(errs, fmt.Sprintf("scene %d: aside without id", s.Index))
				continue
			}
			if seen[a.ID] {
				errs = append(errs, fmt.Sprintf("scene %d: duplicate aside %q", s.Index, a.ID))
			}
			seen[a.ID] = true
		}
		out[i] = s
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog:\n  %s", strings.Join(errs, "\n  "))
	}
	return &Catalog{scenes: out}, nil
}

// Len returns the total scene count.
func (c *Catalog) Len() int {
	return len(c.scenes)
}

// Scene returns the scene at a 1-based index.
func (c *Catalog) Scene(index int) (Scene, bool) {
	if index < 1 || index > len(c.scenes) {
		return Scene{}, false
	}
	return c.scenes[index-1], true
}

// Scenes returns a copy of all scenes in story order.
func (c *Catalog) Scenes() []Scene {
	out := make([]Scene, len(c.scenes))
	copy(out, c.scenes)
	return out
}

// TotalAsides counts every aside across the whole catalog.
func (c *Catalog) TotalAsides() int {
	n := 0
	for _, s := range c.scenes {
		n += len(s.Asides)
	}
	return n
}

// TotalCoffee counts every hidden coffee item across the whole catalog.
func (c *Catalog) TotalCoffee() int {
	n := 0
	for _, s := range c.scenes {
		n += len(s.Coffee)
	}
	return n
}

// TransitionLength returns the length of the video between scenes from and
// from+1, or zero when the catalog does not say.
func (c *Catalog) TransitionLength(from int) time.Duration {
	s, ok := c.Scene(from)
	if !ok || from >= len(c.scenes) || s.TransitionSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TransitionSeconds * float64(time.Second))
}

// ItemKey builds the composite tracking key for an item inside a scene.
func ItemKey(sceneIndex int, itemID string) string {
	return fmt.Sprintf("scene-%d-%s", sceneIndex, itemID)
}
