package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.json")
	data := `{
		"artists": [{"name": "Low", "genres": ["slowcore"], "rating": 4.5}],
		"albums": [{"artist": "Low", "title": "Things We Lost in the Fire", "genre": "slowcore", "year": 2001}],
		"meta": {
			"top_genres": [{"name": "slowcore", "weight": 12}, {"name": "ambient", "weight": 30}],
			"avg_rating": 4.1,
			"region": "US"
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.TotalArtists != 1 || p.TotalAlbums != 1 {
		t.Errorf("totals should default to entry counts: got %d/%d", p.TotalArtists, p.TotalAlbums)
	}

	if s, ok := p.Meta.GetString("region"); !ok || s != "US" {
		t.Errorf("GetString(region): got %q, %v", s, ok)
	}
	if n, ok := p.Meta.GetNumber("avg_rating"); !ok || n != 4.1 {
		t.Errorf("GetNumber(avg_rating): got %v, %v", n, ok)
	}
	genres, ok := p.Meta.GetRankedList("top_genres")
	if !ok || len(genres) != 2 {
		t.Fatalf("GetRankedList(top_genres): got %v, %v", genres, ok)
	}
	// Sorted by weight descending.
	if genres[0].Name != "ambient" {
		t.Errorf("ranked list should sort by weight desc: got %q first", genres[0].Name)
	}
}

func TestLoadProfile_Missing(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMetadata_DefensiveLookups(t *testing.T) {
	m := Metadata{
		"name":  StringValue("x"),
		"count": NumberValue(3),
	}

	if _, ok := m.GetString("missing"); ok {
		t.Error("missing key should report false")
	}
	if _, ok := m.GetNumber("name"); ok {
		t.Error("kind mismatch should report false, not coerce")
	}
	if _, ok := m.GetRankedList("count"); ok {
		t.Error("kind mismatch should report false")
	}
	var nilMeta Metadata
	if _, ok := nilMeta.GetString("any"); ok {
		t.Error("nil metadata should behave as empty")
	}
}

func TestProfile_Fingerprint(t *testing.T) {
	p1 := &Profile{TotalArtists: 10, TotalAlbums: 50, Meta: Metadata{
		"a": NumberValue(1), "b": StringValue("x"),
	}}
	p2 := &Profile{TotalArtists: 10, TotalAlbums: 50, Meta: Metadata{
		"b": StringValue("x"), "a": NumberValue(1),
	}}

	if p1.Fingerprint("ollama", "llama3") != p2.Fingerprint("ollama", "llama3") {
		t.Error("fingerprint should be independent of metadata map order")
	}
	if p1.Fingerprint("ollama", "llama3") == p1.Fingerprint("ollama", "llama3.1") {
		t.Error("fingerprint should vary with model")
	}
	if p1.Fingerprint("ollama", "llama3") == (&Profile{TotalArtists: 11, TotalAlbums: 50}).Fingerprint("ollama", "llama3") {
		t.Error("fingerprint should vary with library size")
	}
}
