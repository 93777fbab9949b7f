package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Gallery is the display surface for rendered charts: the latest PNG per
// location is held in memory for the HTTP charts endpoint, and optionally
// written to a directory. It implements Sink.
type Gallery struct {
	dir string

	mu     sync.RWMutex
	latest map[string][]byte
}

// NewGallery creates a gallery. dir may be empty to keep charts in memory only.
func NewGallery(dir string) *Gallery {
	return &Gallery{dir: dir, latest: make(map[string][]byte)}
}

// Display stores the chart as the latest for its location and, when a
// directory is configured, writes it as <location>.png.
func (g *Gallery) Display(location string, png []byte) error {
	g.mu.Lock()
	g.latest[location] = png
	g.mu.Unlock()

	if g.dir == "" {
		return nil
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	name := filepath.Join(g.dir, fileName(location))
	if err := os.WriteFile(name, png, 0o644); err != nil {
		return fmt.Errorf("write chart %s: %w", name, err)
	}
	return nil
}

// Latest returns the most recently displayed chart for a location.
func (g *Gallery) Latest(location string) ([]byte, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	png, ok := g.latest[location]
	return png, ok
}

// Locations lists locations with a chart, sorted for stable output.
func (g *Gallery) Locations() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.latest))
	for loc := range g.latest {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// fileName keeps location names as-is except for path separators.
func fileName(location string) string {
	safe := strings.ReplaceAll(location, string(os.PathSeparator), "_")
	return safe + ".png"
}
