package plugin

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	objectiveHeading = "Objective"
	templateHeading  = "Contextual Prompt Template"
)

// Playbook is a scripted task: what to achieve and the prompt that asks for it.
type Playbook struct {
	Objective      string
	PromptTemplate string
}

// LoadPlaybook reads and parses the playbook markdown at path.
func LoadPlaybook(path string) (*Playbook, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrPlaybookNotFound, path)
		}
		return nil, fmt.Errorf("read playbook: %w", err)
	}

	pb, err := ParsePlaybook(source)
	if err != nil {
		return nil, fmt.Errorf("playbook %s: %w", path, err)
	}
	return pb, nil
}

// ParsePlaybook extracts the "## Objective" section, which ends at the next
// level-2-or-deeper heading, and the "## Contextual Prompt Template" section,
// which runs to the end of the document.
func ParsePlaybook(source []byte) (*Playbook, error) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var headings []*ast.Heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Lines().Len() > 0 {
			headings = append(headings, h)
		}
	}

	objective, tmpl := -1, -1
	for i, h := range headings {
		if h.Level != 2 {
			continue
		}
		title := strings.TrimSpace(string(h.Lines().Value(source)))
		switch {
		case title == objectiveHeading && objective < 0:
			objective = i
		case title == templateHeading && tmpl < 0:
			tmpl = i
		}
	}
	if objective < 0 || tmpl < 0 {
		return nil, ErrPlaybookSections
	}

	objStart := headingEnd(source, headings[objective])
	objEnd := len(source)
	for _, h := range headings[objective+1:] {
		if h.Level >= 2 {
			objEnd = lineStart(source, h.Lines().At(0).Start)
			break
		}
	}

	return &Playbook{
		Objective:      strings.TrimSpace(string(source[objStart:objEnd])),
		PromptTemplate: strings.TrimSpace(string(source[headingEnd(source, headings[tmpl]):])),
	}, nil
}

func lineStart(source []byte, pos int) int {
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func lineEnd(source []byte, pos int) int {
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}

// headingEnd returns the offset just past the heading, including a setext
// underline when present.
func headingEnd(source []byte, h *ast.Heading) int {
	last := h.Lines().At(h.Lines().Len() - 1)
	pos := last.Stop
	if pos > last.Start && source[pos-1] == '\n' {
		pos--
	}
	end := lineEnd(source, pos)

	next := strings.TrimSpace(string(source[end:lineEnd(source, end)]))
	if next != "" && (strings.Trim(next, "=") == "" || strings.Trim(next, "-") == "") {
		return lineEnd(source, end)
	}
	return end
}
