package transform

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var skipToContentRe = regexp.MustCompile(`(?i)\[Skip to Content\]\(#[^)]*\)`)

// toMarkdown converts pruned, URL-resolved HTML to markdown text.
//
// Conversion failure is non-fatal: the result degrades to an empty string
// and callers must treat empty content as a possible success outcome.
func toMarkdown(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	markdown, err := conv.ConvertString(htmlContent)
	if err != nil {
		return ""
	}

	return removeSkipToContentLinks(escapeMultilineLinks(markdown))
}

// escapeMultilineLinks escapes newlines inside bracketed link-label text
// with a backslash, so a line break in a label is not read as a markdown
// block boundary. A nesting counter (floored at zero) tracks bracket
// depth, covering nested brackets.
func escapeMultilineLinks(markdown string) string {
	var sb strings.Builder
	sb.Grow(len(markdown))

	depth := 0
	for _, ch := range markdown {
		switch ch {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		}
		if depth > 0 && ch == '\n' {
			sb.WriteByte('\\')
			sb.WriteByte('\n')
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

// removeSkipToContentLinks strips "[Skip to Content](#...)" accessibility
// links, case-insensitive on "content" and regardless of fragment text.
// Surrounding whitespace is left alone.
func removeSkipToContentLinks(markdown string) string {
	return skipToContentRe.ReplaceAllString(markdown, "")
}
