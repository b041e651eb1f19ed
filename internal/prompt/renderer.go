package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tunescout/tunescout/internal/budget"
	"github.com/tunescout/tunescout/internal/library"
	"github.com/tunescout/tunescout/internal/tokenizer"
)

// Pass names which rendering strategy produced the final prompt.
type Pass string

const (
	PassStandard  Pass = "standard"
	PassGrouped   Pass = "grouped"
	PassRelaxed   Pass = "relaxed"
	PassTruncated Pass = "truncated"
)

// Rendered is the literal prompt text plus how it was produced.
type Rendered struct {
	System string
	User   string
	Pass   Pass
	Tokens int
}

// Renderer turns a library profile into prompt text that fits the
// usable token budget. Strategies are tried in order: full listing,
// grouped clusters, relaxed group headers, deterministic truncation.
// The last pass cannot fail.
type Renderer struct {
	counter tokenizer.Tokenizer
	limits  CompressionLimits
}

// NewRenderer creates a renderer using the given tokenizer for budget
// checks.
func NewRenderer(counter tokenizer.Tokenizer, limits CompressionLimits) *Renderer {
	return &Renderer{counter: counter, limits: limits}
}

// Render produces the system and user prompts for a recommendation
// request asking for count albums.
func (r *Renderer) Render(p *library.Profile, b budget.Budget, s Sizing, count int) Rendered {
	system := systemPrompt(count)
	header := r.headerLines(p)

	artists := sortedArtists(p.Artists)
	albums := sortedAlbums(p.Albums)

	// Pass 1: full listing at the sized targets.
	body := r.standardBody(header, artists, albums, s)
	if tokens := r.counter.Count(body); tokens <= b.Usable {
		return Rendered{System: system, User: body, Pass: PassStandard, Tokens: tokens}
	}

	// Pass 2: albums clustered per genre (decade fallback), noisy
	// small groups dropped.
	body = r.groupedBody(header, artists, albums, s, true)
	if tokens := r.counter.Count(body); tokens <= b.Usable {
		return Rendered{System: system, User: body, Pass: PassGrouped, Tokens: tokens}
	}

	// Pass 3: headers only, total coverage bounded by the relaxed cap.
	body = r.groupedBody(header, artists, albums, s, false)
	if tokens := r.counter.Count(body); tokens <= b.Usable {
		return Rendered{System: system, User: body, Pass: PassRelaxed, Tokens: tokens}
	}

	// Pass 4: drop trailing lines in stable order until the text fits.
	body = r.truncateToFit(body, b.Usable)
	return Rendered{System: system, User: body, Pass: PassTruncated, Tokens: r.counter.Count(body)}
}

func systemPrompt(count int) string {
	if count <= 0 {
		count = 10
	}
	return fmt.Sprintf(`You are a music recommendation engine. Based on the listener's library described by the user, recommend %d albums they do not already own.

Respond with ONLY a JSON array, no prose and no markdown fences. Each element:
{"artist": "...", "album": "...", "genre": "...", "year": 1994, "reason": "...", "confidence": 0.8}

- artist and album are required
- confidence is your certainty in [0,1]
- reason is one short sentence tying the pick to the library`, count)
}

// headerLines summarises the library and appends enrichment drawn from
// the profile metadata. Every lookup is defensive; absent keys simply
// produce no line.
func (r *Renderer) headerLines(p *library.Profile) []string {
	lines := []string{
		fmt.Sprintf("Library: %d artists, %d albums.", p.TotalArtists, p.TotalAlbums),
	}
	if genres, ok := p.Meta.GetRankedList("top_genres"); ok && len(genres) > 0 {
		lines = append(lines, "Top genres: "+rankedLine(genres, 8))
	}
	if top, ok := p.Meta.GetRankedList("top_artists"); ok && len(top) > 0 {
		lines = append(lines, "Most played artists: "+rankedLine(top, 10))
	}
	if avg, ok := p.Meta.GetNumber("avg_rating"); ok {
		lines = append(lines, fmt.Sprintf("Average album rating: %.1f/5.", avg))
	}
	if note, ok := p.Meta.GetString("listener_note"); ok && note != "" {
		lines = append(lines, "Listener note: "+note)
	}
	return lines
}

func rankedLine(entries []library.RankedEntry, max int) string {
	if len(entries) > max {
		entries = entries[:max]
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%g)", e.Name, e.Weight)
	}
	return strings.Join(parts, ", ")
}

func (r *Renderer) standardBody(header []string, artists []library.Artist, albums []library.Album, s Sizing) string {
	var sb strings.Builder
	for _, l := range header {
		sb.WriteString(l)
		sb.WriteString("\n")
	}

	if n := minInt(s.TargetArtists, len(artists)); n > 0 {
		sb.WriteString("\nArtists in the library:\n")
		for _, a := range artists[:n] {
			sb.WriteString("- ")
			sb.WriteString(a.Name)
			if len(a.Genres) > 0 {
				sb.WriteString(" [" + strings.Join(a.Genres, ", ") + "]")
			}
			sb.WriteString("\n")
		}
	}

	if n := minInt(s.TargetAlbums, len(albums)); n > 0 {
		sb.WriteString("\nAlbums in the library:\n")
		for _, al := range albums[:n] {
			sb.WriteString("- " + al.Artist + " - " + al.Title)
			if al.Year > 0 {
				sb.WriteString(fmt.Sprintf(" (%d)", al.Year))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// albumGroup is one genre/decade cluster built for the compressed
// passes.
type albumGroup struct {
	label  string
	albums []library.Album
}

// groupedBody renders albums as clusters. With exemplars, each group
// shows a few representative titles; without, only headers are emitted
// and the total album coverage is bounded by the relaxed cap.
func (r *Renderer) groupedBody(header []string, artists []library.Artist, albums []library.Album, s Sizing, exemplars bool) string {
	var sb strings.Builder
	for _, l := range header {
		sb.WriteString(l)
		sb.WriteString("\n")
	}

	if n := minInt(s.TargetArtists, len(artists)); n > 0 {
		names := make([]string, n)
		for i, a := range artists[:n] {
			names[i] = a.Name
		}
		sb.WriteString("\nArtists: " + strings.Join(names, ", ") + "\n")
	}

	groups := groupAlbums(albums, r.limits.MinAlbumsPerGroup)
	if len(groups) == 0 {
		return sb.String()
	}

	sb.WriteString("\nAlbums by genre:\n")
	covered := 0
	relaxedCap := r.limits.RelaxedCap(s.TargetAlbums)
	for _, g := range groups {
		if !exemplars && covered+len(g.albums) > relaxedCap {
			break
		}
		covered += len(g.albums)
		if exemplars {
			names := make([]string, 0, 3)
			for _, al := range g.albums {
				if len(names) == 3 {
					break
				}
				names = append(names, al.Artist+" - "+al.Title)
			}
			sb.WriteString(fmt.Sprintf("- %s: %d albums (e.g. %s)\n", g.label, len(g.albums), strings.Join(names, "; ")))
		} else {
			sb.WriteString(fmt.Sprintf("- %s: %d albums\n", g.label, len(g.albums)))
		}
	}
	return sb.String()
}

// groupAlbums clusters by genre, falling back to release decade for
// albums without one. Groups under minSize are dropped. Output order
// is size descending, label ascending — stable for a given library.
func groupAlbums(albums []library.Album, minSize int) []albumGroup {
	byLabel := map[string][]library.Album{}
	for _, al := range albums {
		label := strings.TrimSpace(al.Genre)
		if label == "" {
			if al.Year >= 1000 {
				label = fmt.Sprintf("%ds", al.Year/10*10)
			} else {
				label = "uncategorized"
			}
		}
		byLabel[label] = append(byLabel[label], al)
	}

	groups := make([]albumGroup, 0, len(byLabel))
	for label, members := range byLabel {
		if len(members) < minSize {
			continue
		}
		groups = append(groups, albumGroup{label: label, albums: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].albums) != len(groups[j].albums) {
			return len(groups[i].albums) > len(groups[j].albums)
		}
		return groups[i].label < groups[j].label
	})
	return groups
}

// truncateToFit keeps the longest line prefix of body that fits the
// budget. Binary search keeps the tokenizer call count logarithmic.
func (r *Renderer) truncateToFit(body string, usable int) string {
	if usable <= 0 {
		return ""
	}
	lines := strings.Split(body, "\n")
	lo, hi := 0, len(lines)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if r.counter.Count(strings.Join(lines[:mid], "\n")) <= usable {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return strings.Join(lines[:lo], "\n")
}

// sortedArtists orders by rating descending then name ascending, so
// every pass sees the same deterministic ranking.
func sortedArtists(artists []library.Artist) []library.Artist {
	out := make([]library.Artist, len(artists))
	copy(out, artists)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sortedAlbums(albums []library.Album) []library.Album {
	out := make([]library.Album, len(albums))
	copy(out, albums)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].Artist != out[j].Artist {
			return out[i].Artist < out[j].Artist
		}
		return out[i].Title < out[j].Title
	})
	return out
}
