package structure

import (
	"regexp"
	"strings"
	"unicode"
)

// Marker identifies the list marker style of a list element.
type Marker string

const (
	MarkerBullet   Marker = "bullet"
	MarkerNumbered Marker = "numbered"
	MarkerLettered Marker = "lettered"
)

// Element is one detected line. Line numbers are 1-based; Content is the
// trimmed line text. Marker is set for list elements only.
type Element struct {
	Content string `json:"content"`
	Line    int    `json:"line_number"`
	Marker  Marker `json:"marker,omitempty"`
}

// Structure holds the line annotations for a document. The three detections
// run independently: a line may appear under more than one kind.
type Structure struct {
	Sections []Element `json:"sections"`
	Lists    []Element `json:"lists"`
	Tables   []Element `json:"tables"`
}

var (
	headingRe = regexp.MustCompile(`^\d+\.?\s+[A-Z]`)

	// List detection is first-match-wins across these, so a numbered line
	// never also reports as lettered.
	listRes = []struct {
		re     *regexp.Regexp
		marker Marker
	}{
		{regexp.MustCompile(`^\s*[-•*]\s+`), MarkerBullet},
		{regexp.MustCompile(`^\s*\d+\.?\s+`), MarkerNumbered},
		{regexp.MustCompile(`^\s*[a-zA-Z]\.?\s+`), MarkerLettered},
	}

	spaceRunRe = regexp.MustCompile(`\s{3,}`)
)

// Analyze splits text into lines and annotates section headers, list items,
// and table-like lines. Empty text yields an empty Structure.
func Analyze(text string) Structure {
	var s Structure
	if text == "" {
		return s
	}

	for i, line := range strings.Split(text, "\n") {
		num := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed != "" && (isUpperLine(trimmed) || headingRe.MatchString(trimmed)) {
			s.Sections = append(s.Sections, Element{Content: trimmed, Line: num})
		}

		for _, lr := range listRes {
			if lr.re.MatchString(line) {
				s.Lists = append(s.Lists, Element{Content: trimmed, Line: num, Marker: lr.marker})
				break
			}
		}

		if isTableLike(line) {
			s.Tables = append(s.Tables, Element{Content: trimmed, Line: num})
		}
	}

	return s
}

// isUpperLine reports whether the line contains at least one letter and no
// lowercase letters, i.e. a fully upper-case heading.
func isUpperLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// isTableLike reports lines with tab or pipe separators, or more than one run
// of three-plus whitespace characters (column alignment padding).
func isTableLike(line string) bool {
	if strings.ContainsAny(line, "\t|") {
		return true
	}
	return len(spaceRunRe.FindAllString(line, -1)) > 1
}
