package webqa

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^#{1,6}\s+\S`)

// SplitParagraphs splits markdown into paragraphs separated by blank lines.
// Fenced code blocks are never split, and a heading is joined to the
// paragraph that follows it so the paragraph keeps its context.
func SplitParagraphs(markdown string) []string {
	if strings.TrimSpace(markdown) == "" {
		return nil
	}

	var (
		paragraphs []string
		buf        []string
		heading    string
		fence      string
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if text == "" {
			return
		}
		if len(strings.Split(text, "\n")) == 1 && headingRe.MatchString(text) {
			heading = text
			return
		}
		if heading != "" {
			text = heading + "\n" + text
			heading = ""
		}
		paragraphs = append(paragraphs, text)
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if fence != "" {
			buf = append(buf, line)
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			fence = "```"
			buf = append(buf, line)
		case strings.HasPrefix(trimmed, "~~~"):
			fence = "~~~"
			buf = append(buf, line)
		case trimmed == "":
			flush()
		case headingRe.MatchString(trimmed):
			flush()
			buf = append(buf, line)
			flush()
		default:
			buf = append(buf, line)
		}
	}
	flush()

	if heading != "" {
		paragraphs = append(paragraphs, heading)
	}

	return paragraphs
}
