// Package slug turns titles into URL-safe identifiers and resolves
// collisions inside one entity's namespace.
package slug

import (
	"context"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ExistsFunc reports whether candidate is already taken. Implementations
// exclude the row being edited, if any.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Normalize transliterates s to ASCII, lowercases it and joins the
// alphanumeric runs with single hyphens. Leading and trailing hyphens are
// dropped, so punctuation-only input yields "".
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii := unidecode.Unidecode(s)
	if folded, _, err := transform.String(t, ascii); err == nil {
		ascii = folded
	}

	var b strings.Builder
	gap := false
	for _, r := range strings.ToLower(ascii) {
		if r < utf8.RuneSelf && (r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			if gap && b.Len() > 0 {
				b.WriteByte('-')
			}
			gap = false
			b.WriteRune(r)
			continue
		}
		gap = true
	}
	return b.String()
}

// Choose returns the normalized override when it is non-blank, else the
// normalized title.
func Choose(override, title string) string {
	if o := strings.TrimSpace(override); o != "" {
		return Normalize(o)
	}
	return Normalize(title)
}

// Unique returns base if it is free, otherwise the first free value of
// base-1, base-2, ... in that order.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

// Make is Choose followed by Unique.
func Make(ctx context.Context, override, title string, exists ExistsFunc) (string, error) {
	return Unique(ctx, Choose(override, title), exists)
}
