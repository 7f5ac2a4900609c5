package extract

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/hyperjump/shirushi/internal/models"
)

// extractMarkdown flattens Markdown to plain text by walking the parsed AST,
// then paginates like any text document. Inline formatting disappears while
// block boundaries become line breaks, so extracted lines read the way the
// rendered document does.
func (e *Extractor) extractMarkdown(content []byte) ([]*models.PageContent, error) {
	text, err := markdownText(content)
	if err != nil {
		return nil, fmt.Errorf("parse Markdown: %w", err)
	}
	return e.paginateText(text), nil
}

// markdownText renders a Markdown AST as newline-separated plain text.
func markdownText(source []byte) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.AutoLink:
			b.Write(node.Label(source))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			newline()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
		default:
			// Raw HTML blocks fall through here too: they separate lines but
			// never emit their markup.
			if n.Type() == ast.TypeBlock {
				newline()
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
