// Package library defines the music library snapshot the recommender
// describes to the model.
package library

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Artist is one artist entry in the snapshot.
type Artist struct {
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	Rating     float64  `json:"rating,omitempty"`
	AlbumCount int      `json:"album_count,omitempty"`
}

// Album is one album entry in the snapshot.
type Album struct {
	Artist string  `json:"artist"`
	Title  string  `json:"title"`
	Genre  string  `json:"genre,omitempty"`
	Year   int     `json:"year,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// Profile is an immutable snapshot of the user's library. Built by the
// host integration (or loaded from a JSON export) and read-only here.
type Profile struct {
	TotalArtists int      `json:"total_artists"`
	TotalAlbums  int      `json:"total_albums"`
	Artists      []Artist `json:"artists,omitempty"`
	Albums       []Album  `json:"albums,omitempty"`
	Meta         Metadata `json:"meta,omitempty"`
}

// LoadProfile reads a profile from a JSON export file. Totals default
// to the entry counts when the export omits them.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("library: read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("library: parse profile: %w", err)
	}
	if p.TotalArtists == 0 {
		p.TotalArtists = len(p.Artists)
	}
	if p.TotalAlbums == 0 {
		p.TotalAlbums = len(p.Albums)
	}
	return &p, nil
}

// Fingerprint returns a stable cache key for this profile when queried
// through the given provider and model. Metadata keys are sorted so
// map iteration order cannot change the key.
func (p *Profile) Fingerprint(provider, model string) string {
	h := sha256.New()
	fmt.Fprintf(h, "artists=%d;albums=%d;provider=%s;model=%s;", p.TotalArtists, p.TotalAlbums, provider, model)

	keys := make([]string, 0, len(p.Meta))
	for k := range p.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s;", k, p.Meta[k].fingerprint())
	}
	return hex.EncodeToString(h.Sum(nil))
}
