package markdown

import (
	"strings"

	"github.com/veridraft/veridraft/internal/model"
)

// Document is the parsed form of a Markdown draft
type Document struct {
	Sections []model.Section
	Links    []Link
	Tables   []Table
}

// Link is a [text](url) reference with its position in the draft
type Link struct {
	Text    string
	URL     string
	Section string // Heading of the enclosing section ("" for preamble)
	Line    int    // 1-based line number
}

// Table is a detected pipe-table (header row plus separator line)
type Table struct {
	Section string
	Line    int // 1-based line of the header row
	Rows    int // Data rows following the separator
}

// Parse splits a draft into sections, links and tables with a single
// line-oriented pass. Fenced code blocks are skipped entirely.
func Parse(text string) *Document {
	doc := &Document{}
	lines := strings.Split(text, "\n")

	var current strings.Builder
	heading := ""
	level := 0
	inFence := false

	flush := func() {
		content := strings.TrimSpace(current.String())
		if heading == "" && content == "" {
			current.Reset()
			return
		}
		doc.Sections = append(doc.Sections, model.Section{
			Heading:   heading,
			Level:     level,
			Content:   content,
			WordCount: len(strings.Fields(content)),
		})
		current.Reset()
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if h, lvl, ok := parseHeading(trimmed); ok {
			flush()
			heading = h
			level = lvl
			continue
		}

		doc.Links = append(doc.Links, scanLinks(line, heading, i+1)...)

		if isPipeRow(trimmed) && i+1 < len(lines) && isSeparatorRow(strings.TrimSpace(lines[i+1])) {
			table := Table{Section: heading, Line: i + 1}
			current.WriteString(line)
			current.WriteString("\n")
			current.WriteString(lines[i+1])
			current.WriteString("\n")
			j := i + 2
			for j < len(lines) && isPipeRow(strings.TrimSpace(lines[j])) {
				doc.Links = append(doc.Links, scanLinks(lines[j], heading, j+1)...)
				current.WriteString(lines[j])
				current.WriteString("\n")
				table.Rows++
				j++
			}
			doc.Tables = append(doc.Tables, table)
			i = j - 1
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	return doc
}

// WordCount returns the total word count across all sections, headings included
func (d *Document) WordCount() int {
	total := 0
	for _, s := range d.Sections {
		total += s.WordCount + len(strings.Fields(s.Heading))
	}
	return total
}

// SectionByHeading returns the first section whose heading matches exactly
func (d *Document) SectionByHeading(heading string) (model.Section, bool) {
	for _, s := range d.Sections {
		if strings.EqualFold(s.Heading, heading) {
			return s, true
		}
	}
	return model.Section{}, false
}

// parseHeading recognizes ATX headings (# through ######)
func parseHeading(line string) (heading string, level int, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return "", 0, false
	}

	level = 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > 6 {
		return "", 0, false
	}

	rest := line[level:]
	if rest != "" && !strings.HasPrefix(rest, " ") && !strings.HasPrefix(rest, "\t") {
		return "", 0, false
	}

	heading = strings.TrimSpace(strings.TrimRight(rest, "#"))
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return "", 0, false
	}

	return heading, level, true
}

// scanLinks extracts [text](url) links from a line without regex.
// Image embeds (![alt](url)) are skipped.
func scanLinks(line, section string, lineNo int) []Link {
	var links []Link

	for i := 0; i < len(line); i++ {
		if line[i] != '[' {
			continue
		}
		if i > 0 && line[i-1] == '!' {
			continue
		}

		closeIdx := strings.IndexByte(line[i+1:], ']')
		if closeIdx < 0 {
			break
		}
		closeIdx += i + 1

		if closeIdx+1 >= len(line) || line[closeIdx+1] != '(' {
			i = closeIdx
			continue
		}

		endIdx := strings.IndexByte(line[closeIdx+2:], ')')
		if endIdx < 0 {
			i = closeIdx
			continue
		}
		endIdx += closeIdx + 2

		text := strings.TrimSpace(line[i+1 : closeIdx])
		target := strings.TrimSpace(line[closeIdx+2 : endIdx])

		// Drop an optional link title: [t](url "title")
		if sp := strings.IndexAny(target, " \t"); sp > 0 {
			target = target[:sp]
		}

		if target != "" {
			links = append(links, Link{
				Text:    text,
				URL:     target,
				Section: section,
				Line:    lineNo,
			})
		}

		i = endIdx
	}

	return links
}

// isPipeRow reports whether a line looks like a table row
func isPipeRow(line string) bool {
	return strings.HasPrefix(line, "|") && strings.Count(line, "|") >= 2
}

// isSeparatorRow recognizes the |---|:---:| line under a table header
func isSeparatorRow(line string) bool {
	if !isPipeRow(line) {
		return false
	}

	cells := strings.Split(strings.Trim(line, "|"), "|")
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		for _, r := range cell {
			if r != '-' && r != ':' {
				return false
			}
		}
		if !strings.Contains(cell, "-") {
			return false
		}
	}

	return true
}

// StripLinks reduces [text](url) occurrences in text to their link
// text, so sentence heuristics see prose instead of URLs.
func StripLinks(text string) string {
	var out strings.Builder
	lines := strings.Split(text, "\n")

	for li, line := range lines {
		if li > 0 {
			out.WriteString("\n")
		}
		for i := 0; i < len(line); i++ {
			if line[i] == '[' && (i == 0 || line[i-1] != '!') {
				closeIdx := strings.IndexByte(line[i+1:], ']')
				if closeIdx >= 0 {
					closeIdx += i + 1
					if closeIdx+1 < len(line) && line[closeIdx+1] == '(' {
						endIdx := strings.IndexByte(line[closeIdx+2:], ')')
						if endIdx >= 0 {
							out.WriteString(line[i+1 : closeIdx])
							i = closeIdx + 2 + endIdx
							continue
						}
					}
				}
			}
			out.WriteByte(line[i])
		}
	}

	return out.String()
}
