// Package slug derives stable ASCII identifiers from catalog text.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	itemNamespace   = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront-catalog/items"))
)

// From folds accents, lowercases and joins the remaining alphanumerics with hyphens.
// Scripts without an ASCII decomposition produce an empty string.
func From(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := nonAlphanumeric.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(out, "-")
}

// ItemID builds an id from title and creator. When neither yields a slug the id
// is a name-based UUID so the same record always maps to the same id.
func ItemID(title, creator string) string {
	if id := From(title + " " + creator); id != "" {
		return id
	}
	key := strings.TrimSpace(title) + "\x00" + strings.TrimSpace(creator)
	return uuid.NewSHA1(itemNamespace, []byte(key)).String()
}
