// Package handle derives canonical term handles from display labels.
//
// A handle is the lowercase, underscore-separated identifier under which a
// term is registered in a model and written to the Terms section of an MDF
// file. Handles are derived only from the label text, so the same label
// always yields the same handle:
//
//	"Left Kidney"     -> "left_kidney"
//	"cellNucleus"     -> "cell_nucleus"
//	"Kidney, Left"    -> "kidney,_left"
//	"  padded "       -> "__padded_"
//
// No trimming or punctuation stripping is performed.
package handle

import "strings"

// Normalize converts a display label into a handle.
//
// Spaces become underscores, an underscore is inserted where a lowercase
// ASCII letter or digit is directly followed by an uppercase letter (unless
// one is already there), and the result is lowercased.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")

	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUpper(c) && i > 0 && isLowerOrDigit(s[i-1]) {
			b.WriteByte('_')
		}
		b.WriteByte(c)
	}

	return strings.ToLower(b.String())
}

// Func is the signature shared by handle normalizers.
type Func func(string) string

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isLowerOrDigit(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
