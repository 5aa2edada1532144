// Package catalog holds the read-only event, class and individual lists
// loaded once at startup.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one selectable catalog entry.
type Item struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Catalog is the static catalog. It is never modified after Load.
type Catalog struct {
	Events      []Item `yaml:"events"`
	Classes     []Item `yaml:"classes"`
	Individuals []Item `yaml:"individuals"`
}

// Default is the built-in catalog used when no catalog file is configured.
func Default() *Catalog {
	return &Catalog{
		Events: []Item{
			{ID: "E01", Name: "🎨 Painting Competition"},
			{ID: "E02", Name: "🎵 Music Concert"},
			{ID: "E03", Name: "💃 Dance Battle"},
			{ID: "E04", Name: "🎭 Theatre Play"},
		},
		Classes: []Item{
			{ID: "C1", Name: "Class A"},
			{ID: "C2", Name: "Class B"},
			{ID: "C3", Name: "Class C"},
			{ID: "C4", Name: "Class D"},
			{ID: "C5", Name: "Class E"},
			{ID: "C6", Name: "Class F"},
			{ID: "C7", Name: "Class G"},
		},
		Individuals: []Item{
			{ID: "I_1001", Name: "Ajmel"},
			{ID: "I_1002", Name: "Ajsal"},
			{ID: "I_1003", Name: "Ajnas"},
			{ID: "I_1004", Name: "Shuhaib"},
			{ID: "I_1005", Name: "Dr. Abdul Azeez (Guest)"},
			{ID: "I_1006", Name: "Prof. Fathima (Staff)"},
		},
	}
}

// Load reads a YAML catalog file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// maxIDLen keeps "select_individual_<id>" within Telegram's 64-byte
// callback data limit.
const maxIDLen = 40

// Validate checks that ids are present, short enough for callback payloads
// and unique within each list.
func (c *Catalog) Validate() error {
	for _, list := range []struct {
		name  string
		items []Item
	}{
		{"events", c.Events},
		{"classes", c.Classes},
		{"individuals", c.Individuals},
	} {
		seen := make(map[string]bool, len(list.items))
		for i, it := range list.items {
			switch {
			case strings.TrimSpace(it.ID) == "":
				return fmt.Errorf("%s[%d]: id is empty", list.name, i)
			case strings.TrimSpace(it.Name) == "":
				return fmt.Errorf("%s[%d]: name is empty", list.name, i)
			case len(it.ID) > maxIDLen:
				return fmt.Errorf("%s[%d]: id %q is longer than %d bytes", list.name, i, it.ID, maxIDLen)
			case seen[it.ID]:
				return fmt.Errorf("%s: duplicate id %q", list.name, it.ID)
			}
			seen[it.ID] = true
		}
	}
	return nil
}

// Find returns the item with the given id.
func Find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Search returns the items whose name contains text, ignoring case, in
// catalog order. Empty text matches nothing.
func Search(items []Item, text string) []Item {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil
	}
	var out []Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out
}
