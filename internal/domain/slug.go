package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify derives the lookup key for a brand name: "Forged Carbon" -> "forged-carbon".
func Slugify(name string) string {
	// Caser is stateful, one per call
	fields := strings.Fields(cases.Lower(language.Und).String(name))
	return strings.Join(fields, "-")
}

// SameName reports whether two display names collide under case folding.
func SameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}
