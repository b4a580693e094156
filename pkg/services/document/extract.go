package document

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const listItemPrefix = "- "

// Extract converts a comment body into plain text. Anything that is not a
// document root is returned as an indented JSON dump so nothing gets lost.
func Extract(ctx context.Context, raw any) string {
	doc, ok := Decode(raw)
	if !ok {
		zerolog.Ctx(ctx).Debug().Msg("comment body is not a document, dumping raw value")
		return dump(raw)
	}
	return doc.Text(ctx)
}

// Text reduces every top-level block and joins the non-empty results with newlines.
func (d *Document) Text(ctx context.Context) string {
	var lines []string
	for _, block := range d.Content {
		if text := reduceBlock(ctx, block); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func reduceBlock(ctx context.Context, block Block) string {
	switch b := block.(type) {
	case Paragraph:
		var parts []string
		for _, child := range b.Children {
			if run, ok := child.(TextRun); ok {
				parts = append(parts, run.Text)
			}
		}
		return strings.Join(parts, " ")
	case TextRun:
		return b.Text
	case ListItem:
		parts := make([]string, 0, len(b.Children))
		for _, child := range b.Children {
			parts = append(parts, reduceBlock(ctx, child))
		}
		return listItemPrefix + strings.Join(parts, " ")
	case List:
		var items []string
		for _, item := range b.Items {
			if text := reduceBlock(ctx, item); text != "" {
				items = append(items, text)
			}
		}
		return strings.Join(items, "\n")
	case Unknown:
		zerolog.Ctx(ctx).Debug().
			Str("block_type", b.Type).
			Msg("skipping unsupported comment block")
		return ""
	default:
		return ""
	}
}

func dump(raw any) string {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Sprintf("%#v", raw)
	}
	return string(data)
}
