package core

import (
	"regexp"
	"strings"
)

// ruleidRE recognizes strings that look like a ruleid: letters, an optional
// underscore, an optional ".", "CG" or "S", then a digit (A12.3, KGS_CG3, FfS_S1).
var ruleidRE = regexp.MustCompile(`^[A-Za-z]+_?(\.|CG|S)?[0-9]`)

// IsRuleid reports whether s looks like a ruleid.
func IsRuleid(s string) bool {
	return ruleidRE.MatchString(s)
}

// ASOPChapterIDFromSectionID returns the chapter part of an ASOP section id of
// the form "<chapterId>-<n>".
func ASOPChapterIDFromSectionID(sectionID string) (string, bool) {
	pos := strings.LastIndexByte(sectionID, '-')
	if pos < 0 {
		return "", false
	}

	return sectionID[:pos], true
}

// InferChapterIDFromRuleid guesses the chapter a ruleid belongs to. It is only
// used to pick cosmetic chapter styling:
//   - with an underscore, the chapter is everything before it (KGS_CG3 -> KGS);
//   - otherwise it is the leading run of uppercase letters, and if that run ends
//     in "CG" the "CG" is trimmed (OCG3 -> O).
func InferChapterIDFromRuleid(ruleid string) (string, bool) {
	if pos := strings.IndexByte(ruleid, '_'); pos >= 0 {
		if pos == 0 {
			return "", false
		}

		return ruleid[:pos], true
	}

	n := 0
	for n < len(ruleid) && ruleid[n] >= 'A' && ruleid[n] <= 'Z' {
		n++
	}

	if n == 0 {
		return "", false
	}

	chapterID := ruleid[:n]

	if strings.HasSuffix(chapterID, "CG") {
		chapterID = chapterID[:len(chapterID)-2]
		if chapterID == "" {
			return "", false
		}
	}

	return chapterID, true
}
