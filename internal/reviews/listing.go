package reviews

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases input, strips diacritics and joins alphanumeric runs with "-".
// "Café Düsseldorf 2B" becomes "cafe-dusseldorf-2b".
func Slugify(input string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), strings.ToLower(input))
	if err != nil {
		folded = strings.ToLower(input)
	}
	return strings.Trim(nonSlugChars.ReplaceAllString(folded, "-"), "-")
}

// ListingKey derives the key used to group reviews by property and to key
// approval sets: listing-<id> when an id exists, otherwise listing-<slug(name)>.
func ListingKey(id *string, name string) string {
	if id != nil && strings.TrimSpace(*id) != "" {
		return "listing-" + *id
	}
	if name == "" {
		name = "unknown"
	}
	return "listing-" + Slugify(name)
}
