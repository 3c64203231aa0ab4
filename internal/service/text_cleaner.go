package service

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	pageNumberRe   = regexp.MustCompile(`(?i)^\s*page\s+\d+\s*$`)
	pageOfPageRe   = regexp.MustCompile(`(?i)^\s*\d+\s+of\s+\d+\s*$`)
	runningHeadRe  = regexp.MustCompile(`(?i)^\s*(chapter|section|unit|lecture|module|week)\s+\d+\s*$`)
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	blankLineRunRe = regexp.MustCompile(`\n{3,}`)
)

// CleanExtractedText strips the boilerplate that document exports leave
// behind: page markers, running headers, duplicated lines from slide decks,
// excess whitespace and non-printable characters. It is pure, so the
// downstream chunk quality it protects is unit-testable without any parsing.
func CleanExtractedText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, " ", " ")

	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	prevNonBlank := ""
	for _, line := range lines {
		line = stripUnprintable(line)
		line = spaceRunRe.ReplaceAllString(line, " ")
		line = strings.TrimRight(line, " ")

		trimmed := strings.TrimSpace(line)
		if pageNumberRe.MatchString(trimmed) || pageOfPageRe.MatchString(trimmed) || runningHeadRe.MatchString(trimmed) {
			continue
		}
		// Poorly exported slide decks repeat the same line back to back.
		if trimmed != "" && trimmed == prevNonBlank {
			continue
		}
		if trimmed != "" {
			prevNonBlank = trimmed
		}
		kept = append(kept, line)
	}

	out := strings.Join(kept, "\n")
	out = blankLineRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

// stripUnprintable keeps letters, digits, punctuation, symbols and plain
// spaces/tabs; everything else (control bytes, stray glyphs from binary
// formats) is dropped.
func stripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return r
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return r
		}
		return -1
	}, s)
}
