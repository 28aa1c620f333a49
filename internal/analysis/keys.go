package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// documentIDReplacer collapses the path and extension separators that make
// file names unsafe as storage keys
var documentIDReplacer = strings.NewReplacer("/", "_", "\\", "_", ".", "_", " ", "_")

// DocumentID derives a stable storage key from a file name. Accents are
// stripped, path separators and dots become underscores, and anything
// outside [A-Za-z0-9_-] is dropped.
func DocumentID(fileName string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, fileName)
	if err != nil {
		ascii = fileName
	}

	id := documentIDReplacer.Replace(ascii)
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.1fs", s)
}

func formatBPM(bpm float64) string {
	if bpm <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", bpm)
}
