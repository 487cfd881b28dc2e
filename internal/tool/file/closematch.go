package file

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

type scoredLine struct {
	score float64
	line  string
}

// CloseMatches returns up to n candidates whose similarity ratio to word is at
// least cutoff, best first. Equal scores are ordered by candidate descending.
// Similarity is the SequenceMatcher ratio over characters.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}

	wordChars := chars(word)
	var scored []scoredLine
	for _, c := range candidates {
		m := difflib.NewMatcher(chars(c), wordChars)
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if r := m.Ratio(); r >= cutoff {
			scored = append(scored, scoredLine{score: r, line: c})
		}
	}

	slices.SortStableFunc(scored, func(a, b scoredLine) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(b.line, a.line)
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.line
	}
	return out
}

// chars splits s into its characters for difflib.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// splitLines splits content into lines without their endings, using the
// same boundaries as Python's str.splitlines: \n, \r, \r\n, \v, \f,
// \x1c-\x1e, U+0085, U+2028 and U+2029. A trailing line ending does not
// produce an empty final line.
func splitLines(content string) []string {
	var lines []string
	start := 0
	skipLF := false
	for i, r := range content {
		if skipLF {
			skipLF = false
			if r == '\n' {
				start = i + 1
				continue
			}
		}
		if !isLineBoundary(r) {
			continue
		}
		lines = append(lines, content[start:i])
		start = i + utf8.RuneLen(r)
		skipLF = r == '\r'
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

func isLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
