package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/recipebox/recipebox/internal/sanitize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
			// Inline HTML that survived storage-time cleaning is passed
			// through; the output is sanitized again in Render.
			goldmarkhtml.WithUnsafe(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render converts markdown to sanitized HTML ready for templates.
// Conversion errors degrade to the escaped source text.
func (p *Parser) Render(source string) template.HTML {
	out, err := p.Parse([]byte(source))
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(sanitize.HTML(out))
}

func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, nil, err
	}

	data := frontmatter.Get(context)
	if data == nil {
		meta = make(map[string]any)
	} else {
		err = data.Decode(&meta)
		if err != nil {
			meta = make(map[string]any)
		}
	}

	return buf.Bytes(), meta, nil
}

// Body returns the markdown that follows a leading "---" front matter block.
func Body(source []byte) string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return text
	}
	_, body, found := strings.Cut(text[4:], "\n---\n")
	if !found {
		return text
	}
	return strings.TrimLeft(body, "\n")
}
