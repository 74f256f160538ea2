package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Item is one named text blob of the initial corpus.
type Item struct {
	Name    string
	Content string
}

// Skip records an item left out of a Read: unreadable file, wrong
// encoding. Skips are reported, not fatal.
type Skip struct {
	Name   string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Name, s.Reason)
}

// Source is a read-only collection of named text blobs used to seed
// the store. The coordinator only reads from it, never mutates it.
type Source interface {
	// Read enumerates the corpus items sorted by name.
	//
	// Items that cannot be used (unreadable, non-UTF-8) are returned
	// as Skips. The error is reserved for the source as a whole being
	// unavailable; notably os.ErrNotExist when the backing directory
	// is missing.
	Read(ctx context.Context) ([]Item, []Skip, error)
}

// Dir is a Source backed by a directory of UTF-8 `*.txt` files,
// typically a volume mounted by the surrounding deployment.
type Dir string

var _ Source = Dir("")

func (d Dir) Read(ctx context.Context) ([]Item, []Skip, error) {
	entries, err := os.ReadDir(string(d))
	if err != nil {
		return nil, nil, err
	}

	items := []Item{}
	skips := []Skip{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(string(d), e.Name()))
		if err != nil {
			skips = append(skips, Skip{Name: e.Name(), Reason: err.Error()})
			continue
		}
		if !utf8.Valid(content) {
			skips = append(skips, Skip{Name: e.Name(), Reason: "not a UTF-8 text"})
			continue
		}

		items = append(items, Item{Name: e.Name(), Content: string(content)})
	}

	// os.ReadDir sorts by name already, but do not rely on it.
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return items, skips, nil
}

// InMemory is a Source for tests and embedded defaults.
type InMemory map[string]string

var _ Source = InMemory{}

func (m InMemory) Read(context.Context) ([]Item, []Skip, error) {
	items := make([]Item, 0, len(m))
	for name, content := range m {
		items = append(items, Item{Name: name, Content: content})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil, nil
}
