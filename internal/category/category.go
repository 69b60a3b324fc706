// Package category maps wallpaper categories to search filters and
// on-disk directories.
package category

import (
	"fmt"
	"strings"
)

// Bitmask is a 3-bit flag set. The most significant bit is rendered first,
// matching the wallhaven query format ("100", "010", ...).
type Bitmask uint8

// Content category bits.
const (
	General Bitmask = 0b100
	Anime   Bitmask = 0b010
	People  Bitmask = 0b001
)

// Purity bits.
const (
	SFW     Bitmask = 0b100
	Sketchy Bitmask = 0b010
	NSFW    Bitmask = 0b001
)

// String renders the mask as a 3-character binary string.
func (b Bitmask) String() string {
	return fmt.Sprintf("%03b", uint8(b)&0b111)
}

// Category is one of the known wallpaper kinds.
type Category int

const (
	// Other is general, non-anime content.
	Other Category = iota
	// AnimeSFW is safe anime content from the search API.
	AnimeSFW
	// AnimeNSFW widens purity to sketchy and nsfw.
	AnimeNSFW
	// AnimeArt uses the single-image secondary source instead of search.
	AnimeArt
)

// All lists every category in display order.
var All = []Category{AnimeSFW, Other, AnimeArt, AnimeNSFW}

var aliases = map[string]Category{
	"anime": AnimeSFW,
	"a":     AnimeSFW,
	"other": Other,
	"o":     Other,
	"oa":    AnimeArt,
	"nsfw":  AnimeNSFW,
	"n":     AnimeNSFW,
}

// Parse resolves a category name or alias. Matching is case-insensitive.
func Parse(s string) (Category, error) {
	c, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Other, fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(Names(), ", "))
	}

	return c, nil
}

// Names returns every accepted alias, ordered for help output.
func Names() []string {
	return []string{"anime", "a", "other", "o", "oa", "nsfw", "n"}
}

// Label is the human-readable name printed when a session starts.
func (c Category) Label() string {
	switch c {
	case AnimeSFW:
		return "Anime"
	case AnimeNSFW:
		return "Anime (nsfw)"
	case AnimeArt:
		return "Anime (2nd api)"
	default:
		return "Other"
	}
}

// Aliases returns the flag values that select c.
func (c Category) Aliases() []string {
	var out []string
	for _, name := range Names() {
		if aliases[name] == c {
			out = append(out, name)
		}
	}

	return out
}

// Categories returns the content-category mask sent to the search API.
func (c Category) Categories() Bitmask {
	switch c {
	case AnimeSFW, AnimeNSFW:
		return Anime
	case Other:
		return General
	default:
		return 0
	}
}

// Purity returns the purity mask sent to the search API.
func (c Category) Purity() Bitmask {
	if c == AnimeNSFW {
		return Sketchy | NSFW
	}

	return SFW
}

// Dir is the sub-directory under the wallpaper root where images of this
// category are saved.
func (c Category) Dir() string {
	switch c {
	case AnimeSFW:
		return "anime"
	case AnimeNSFW:
		return "nsfw"
	case AnimeArt:
		return "anime_art"
	default:
		return "other"
	}
}

// SingleSource reports whether the category bypasses the paged search API.
func (c Category) SingleSource() bool {
	return c == AnimeArt
}
