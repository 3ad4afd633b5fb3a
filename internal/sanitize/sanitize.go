// Package sanitize cleans metadata strings for use as output filenames.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const forbidden = `/\<>:"|?*`

// Filename trims s, drops characters that filesystems reject and returns
// the NFC-normalized result. Web-sourced titles occasionally mix composed
// and decomposed kana; normalizing keeps output names stable.
func Filename(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsControl(r) || strings.ContainsRune(forbidden, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}
