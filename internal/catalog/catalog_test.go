package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	people := []Item{
		{ID: "1", Name: "Ajmel"},
		{ID: "2", Name: "Ajsal"},
		{ID: "3", Name: "Shuhaib"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"prefix lowercase", "ajm", []string{"1"}},
		{"shared prefix", "aj", []string{"1", "2"}},
		{"uppercase query", "SHU", []string{"3"}},
		{"middle of name", "sal", []string{"2"}},
		{"surrounding spaces", "  ajm ", []string{"1"}},
		{"no match", "xyz", nil},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(people, tt.query)
			var ids []string
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Search(%q) = %v, want %v", tt.query, ids, tt.want)
			}
		})
	}
}

func TestFind(t *testing.T) {
	c := Default()
	it, ok := Find(c.Classes, "C3")
	if !ok || it.Name != "Class C" {
		t.Errorf("expected Class C, got %+v (ok=%v)", it, ok)
	}
	if _, ok := Find(c.Classes, "C99"); ok {
		t.Error("expected C99 to be missing")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
events:
  - id: E01
    name: Painting
classes:
  - id: C1
    name: Class A
individuals:
  - id: I_1
    name: Ajmel
  - id: I_2
    name: Ajsal
`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(c.Events) != 1 || len(c.Classes) != 1 || len(c.Individuals) != 2 {
		t.Errorf("unexpected sizes: %d/%d/%d", len(c.Events), len(c.Classes), len(c.Individuals))
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"duplicate id", "events:\n  - {id: E1, name: A}\n  - {id: E1, name: B}\n", "duplicate id"},
		{"empty id", "classes:\n  - {id: '', name: A}\n", "id is empty"},
		{"empty name", "individuals:\n  - {id: I1, name: ''}\n", "name is empty"},
		{"long id", "events:\n  - {id: " + strings.Repeat("x", 41) + ", name: A}\n", "longer than"},
		{"bad yaml", "events: [", "parse catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
