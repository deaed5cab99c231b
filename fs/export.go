// Package fs exports cached answers as markdown files.
package fs

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fwojciec/webqa"
	"gopkg.in/yaml.v3"
)

// maxSlugRunes bounds the query part of an exported file name.
const maxSlugRunes = 60

// Exporter writes answers into a directory with atomic update semantics.
// Files are written to a sibling temporary directory and moved into place
// on Commit, replacing any previous export.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates an Exporter that produces dir.
func NewExporter(dir string) *Exporter {
	dir = filepath.Clean(dir)
	return &Exporter{
		baseDir: filepath.Dir(dir),
		name:    filepath.Base(dir),
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Save writes one answer to the temporary directory.
func (e *Exporter) Save(answer *webqa.Answer) error {
	if err := answer.Validate(); err != nil {
		return err
	}

	content, err := FormatAnswer(answer)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.tempDir(), FileName(answer)), []byte(content), 0644)
}

// Commit replaces the export directory with the saved answers.
func (e *Exporter) Commit() error {
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the saved answers.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// frontmatter is the YAML header of an exported answer.
type frontmatter struct {
	Question   string  `yaml:"question"`
	Source     string  `yaml:"source"`
	Title      string  `yaml:"title,omitempty"`
	Confidence float64 `yaml:"confidence"`
	Answered   string  `yaml:"answered"`
}

// FormatAnswer renders an answer as markdown with YAML frontmatter.
func FormatAnswer(a *webqa.Answer) (string, error) {
	header, err := yaml.Marshal(frontmatter{
		Question:   a.Question,
		Source:     a.SourceURL,
		Title:      a.SourceTitle,
		Confidence: a.Confidence,
		Answered:   a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return "", err
	}

	question := a.Question
	if question == "" {
		question = a.QueryKey
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n# ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(a.Text)
	b.WriteString("\n")
	return b.String(), nil
}

// FileName returns the export file name for an answer: its creation time
// followed by a slug of its query key. The result never contains a path
// separator.
func FileName(a *webqa.Answer) string {
	slug := Slug(a.QueryKey)
	if slug == "" {
		slug = a.ID
	}
	if slug == "" {
		slug = "answer"
	}
	return a.CreatedAt.UTC().Format("20060102-150405") + "-" + slug + ".md"
}

// Slug keeps letters and digits of s in any script and joins the remaining
// runs with single hyphens.
func Slug(s string) string {
	var b strings.Builder
	var n int
	pending := false
	for _, r := range s {
		if n >= maxSlugRunes {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
				n++
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			n++
			continue
		}
		pending = true
	}
	return b.String()
}
