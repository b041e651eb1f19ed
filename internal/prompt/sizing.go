// Package prompt decides how much of the library to describe and
// renders the description within a token budget.
package prompt

// Sizing is the chosen number of artists and albums to include in the
// prompt. Always non-negative and never above the library totals.
type Sizing struct {
	TargetArtists int
	TargetAlbums  int
}

// TargetArtistCount picks how many artists to describe. Small
// libraries are listed in full, mid-size libraries are halved with
// floor/ceiling guards, and large libraries fall back to a
// budget-proportional estimate (~260 tokens per rendered artist entry).
func TargetArtistCount(totalArtists, usableTokens int) int {
	switch {
	case totalArtists <= 0:
		return 0
	case totalArtists <= 50:
		return minInt(40, totalArtists)
	case totalArtists <= 200:
		return minInt(60, maxInt(30, totalArtists/2))
	default:
		return minInt(90, maxInt(32, usableTokens/260))
	}
}

// TargetAlbumCount picks how many albums to describe, with the same
// tiered shape as TargetArtistCount (~120 tokens per album entry).
func TargetAlbumCount(totalAlbums, usableTokens int) int {
	switch {
	case totalAlbums <= 0:
		return 0
	case totalAlbums <= 120:
		return minInt(100, totalAlbums)
	case totalAlbums <= 400:
		return minInt(160, maxInt(60, totalAlbums/2))
	default:
		return minInt(220, maxInt(70, usableTokens/120))
	}
}

// SizeFor bundles the two targets, capped at the library totals.
func SizeFor(totalArtists, totalAlbums, usableTokens int) Sizing {
	return Sizing{
		TargetArtists: minInt(TargetArtistCount(totalArtists, usableTokens), maxInt(totalArtists, 0)),
		TargetAlbums:  minInt(TargetAlbumCount(totalAlbums, usableTokens), maxInt(totalAlbums, 0)),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
