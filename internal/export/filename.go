package export

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultNamePart replaces an empty first or last name in file names.
const DefaultNamePart = "resume"

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// FileName builds "{first}-{last}.pdf" from the personal block.
func FileName(p types.PersonalInfo) string {
	return namePart(p.FirstName) + "-" + namePart(p.LastName) + ".pdf"
}

func namePart(s string) string {
	s = strings.TrimSpace(unsafeFileChars.ReplaceAllString(s, "_"))
	if s == "" {
		return DefaultNamePart
	}
	return s
}
