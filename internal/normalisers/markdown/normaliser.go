// Package markdown normalises markdown notes with optional YAML frontmatter.
package markdown

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles markdown notes.
type Normaliser struct {
	log logger.Component
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{log: logger.For("markdown")}
}

// Frontmatter holds the YAML header fields the normaliser understands.
type Frontmatter struct {
	Title   string   `yaml:"title"`
	Tags    []string `yaml:"tags"`
	Aliases []string `yaml:"aliases"`
}

// Normalise extracts the title and plain text of a markdown note.
// The title comes from the frontmatter, then the first H1, then the file name.
func (n *Normaliser) Normalise(_ context.Context, note domain.Note) (domain.Document, error) {
	if note.Path == "" {
		return domain.Document{}, fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}

	fm, body, err := SplitFrontmatter(note.Content)
	if err != nil {
		// Unparseable headers are dropped; the note stays searchable by body.
		n.log.Warn("%s: %v", note.Path, err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = headingTitle(body)
	}
	if title == "" {
		title = TitleFromPath(note.Path)
	}

	return domain.Document{
		Path:  note.Path,
		Title: title,
		Text:  Strip(body),
	}, nil
}

// SplitFrontmatter separates a leading "---" delimited YAML block from the
// body. Content without a complete block is returned unchanged as body.
func SplitFrontmatter(content string) (Frontmatter, string, error) {
	var fm Frontmatter

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		rest, ok = strings.CutPrefix(content, "---\r\n")
	}
	if !ok {
		return fm, content, nil
	}

	header, body, found := cutClosingFence(rest)
	if !found {
		return fm, content, nil
	}

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return Frontmatter{}, body, fmt.Errorf("frontmatter: %w", err)
	}
	return fm, body, nil
}

// cutClosingFence finds a line consisting of "---" or "...".
func cutClosingFence(s string) (header, body string, found bool) {
	offset := 0
	for offset <= len(s) {
		end := strings.IndexByte(s[offset:], '\n')
		var line string
		next := len(s) + 1
		if end < 0 {
			line = s[offset:]
		} else {
			line = s[offset : offset+end]
			next = offset + end + 1
		}
		switch strings.TrimRight(line, "\r \t") {
		case "---", "...":
			if next > len(s) {
				return s[:offset], "", true
			}
			return s[:offset], s[next:], true
		}
		offset = next
	}
	return "", "", false
}

// headingTitle returns the text of the first "# " heading outside code fences.
func headingTitle(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(strings.TrimRight(rest, "#"))
		}
	}
	return ""
}

// TitleFromPath derives a human-readable title from a note path.
func TitleFromPath(p string) string {
	name := path.Base(p)
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

var (
	reFence      = regexp.MustCompile("(?m)^[ \\t]*(```|~~~).*$")
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reWikiAlias  = regexp.MustCompile(`\[\[[^\]|]+\|([^\]]+)\]\]`)
	reWiki       = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	reHeading    = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	reQuote      = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	reRule       = regexp.MustCompile(`(?m)^[ \t]*[-*_]{3,}[ \t]*$`)
	reBullet     = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+(\[[ xX]\][ \t]+)?`)
	reNumbered   = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	reEmphasis   = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	reHTMLTag    = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	reBlankRuns  = regexp.MustCompile(`\n{3,}`)
)

// Strip reduces markdown to plain text. Code block contents and link text
// are kept; markup is dropped.
func Strip(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = reFence.ReplaceAllString(content, "")
	content = reInlineCode.ReplaceAllString(content, "$1")
	content = reImage.ReplaceAllString(content, "$1")
	content = reLink.ReplaceAllString(content, "$1")
	content = reWikiAlias.ReplaceAllString(content, "$1")
	content = reWiki.ReplaceAllString(content, "$1")
	content = reHeading.ReplaceAllString(content, "")
	content = reQuote.ReplaceAllString(content, "")
	content = reRule.ReplaceAllString(content, "")
	content = reBullet.ReplaceAllString(content, "")
	content = reNumbered.ReplaceAllString(content, "")
	content = reEmphasis.ReplaceAllString(content, "")
	content = reHTMLTag.ReplaceAllString(content, "")
	content = reBlankRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
