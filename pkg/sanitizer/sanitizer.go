package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

// Pipeline applies its strategies left to right.
type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNonSlug        = regexp.MustCompile(`[^0-9\p{L}]+`)
	reRepeatedJoiner = regexp.MustCompile(`_+`)

	textPipeline = Pipeline{CollapseSpace}
	keyPipeline  = Pipeline{CollapseSpace, strings.ToLower}
	slugPipeline = Pipeline{
		strings.TrimSpace,
		strings.ToLower,
		func(s string) string { return reNonSlug.ReplaceAllString(s, "_") },
		func(s string) string { return strings.Trim(reRepeatedJoiner.ReplaceAllString(s, "_"), "_") },
	}
)

// CollapseSpace trims s and replaces every inner run of Unicode whitespace
// with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeText is used for titles, host names and venue names shown to users.
func NormalizeText(s string) string {
	return textPipeline.Apply(s)
}

// NormalizeKey is the comparison form of a display string.
func NormalizeKey(s string) string {
	return keyPipeline.Apply(s)
}

// Slug reduces input to lower-case letters and digits separated by single
// underscores. "Hall A / Upper" becomes "hall_a_upper".
func Slug(input string) string {
	return slugPipeline.Apply(input)
}
