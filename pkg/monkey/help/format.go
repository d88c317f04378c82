package help

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title upper-cases the first letter of each word. A Caser is stateful,
// so each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// FormatText formats a TopicResult for terminal output with the given width
func FormatText(result *TopicResult, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	switch result.Kind {
	case "builtin":
		formatBuiltinText(&sb, result)
	case "builtin-list":
		formatBuiltinListText(&sb, result, width)
	case "operator-list":
		formatOperatorListText(&sb, result, width)
	case "keyword-list":
		formatKeywordListText(&sb, result, width)
	case "type-list":
		formatTypeListText(&sb, result, width)
	case "keyword", "operator", "type":
		fmt.Fprintf(&sb, "%s: %s\n\n%s\n", title(result.Kind), result.Name, result.Description)
		if result.Example != "" {
			fmt.Fprintf(&sb, "\nExample: %s\n", result.Example)
		}
	default:
		fmt.Fprintf(&sb, "Unknown result kind: %s\n", result.Kind)
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// formatBuiltinText formats a single builtin's help output
func formatBuiltinText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "%s(%s)\n", result.Name, strings.Join(result.Params, ", "))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s\n", result.Description)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Arity: %s\n", result.Arity)
	fmt.Fprintf(sb, "Category: %s\n", result.Category)
}

// row is a two-column line of a listing.
type row struct {
	left, right string
}

// writeRows aligns the right column and truncates it to width.
func writeRows(sb *strings.Builder, rows []row, width int) {
	maxLen := 0
	for _, r := range rows {
		if len(r.left) > maxLen {
			maxLen = len(r.left)
		}
	}
	for _, r := range rows {
		padding := strings.Repeat(" ", maxLen-len(r.left)+2)
		right := r.right
		if avail := width - 2 - maxLen - 2; avail > 3 && len(right) > avail {
			right = right[:avail-3] + "..."
		}
		fmt.Fprintf(sb, "  %s%s%s\n", r.left, padding, right)
	}
}

func writeHeading(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

// formatBuiltinListText formats builtins grouped by category
func formatBuiltinListText(sb *strings.Builder, result *TopicResult, width int) {
	writeHeading(sb, "Builtin Functions")

	var rows []row
	category := ""
	for _, b := range result.Builtins {
		if b.Category != category {
			if category != "" {
				writeRows(sb, rows, width)
				sb.WriteString("\n")
				rows = nil
			}
			category = b.Category
			fmt.Fprintf(sb, "%s:\n", title(category))
		}
		rows = append(rows, row{fmt.Sprintf("%s(%s)", b.Name, strings.Join(b.Params, ", ")), b.Description})
	}
	writeRows(sb, rows, width)
}

// formatOperatorListText formats operators grouped by category
func formatOperatorListText(sb *strings.Builder, result *TopicResult, width int) {
	writeHeading(sb, "Operators")

	var rows []row
	category := ""
	for _, op := range result.Operators {
		if op.Category != category {
			if category != "" {
				writeRows(sb, rows, width)
				sb.WriteString("\n")
				rows = nil
			}
			category = op.Category
			fmt.Fprintf(sb, "%s:\n", title(category))
		}
		rows = append(rows, row{op.Symbol, op.Description})
	}
	writeRows(sb, rows, width)
}

func formatKeywordListText(sb *strings.Builder, result *TopicResult, width int) {
	writeHeading(sb, "Keywords")

	rows := make([]row, 0, len(result.Keywords))
	for _, k := range result.Keywords {
		rows = append(rows, row{k.Keyword, k.Description})
	}
	writeRows(sb, rows, width)
}

func formatTypeListText(sb *strings.Builder, result *TopicResult, width int) {
	writeHeading(sb, "Types")

	rows := make([]row, 0, len(result.Types))
	for _, ty := range result.Types {
		rows = append(rows, row{ty.Name, ty.Description})
	}
	writeRows(sb, rows, width)
}

// FormatMarkdown renders a TopicResult as a Markdown document.
func FormatMarkdown(result *TopicResult) string {
	var sb strings.Builder

	switch result.Kind {
	case "builtin":
		fmt.Fprintf(&sb, "# `%s(%s)`\n\n", result.Name, strings.Join(result.Params, ", "))
		fmt.Fprintf(&sb, "%s\n\n", result.Description)
		fmt.Fprintf(&sb, "- **Arity:** %s\n- **Category:** %s\n", result.Arity, result.Category)

	case "builtin-list":
		sb.WriteString("# Builtin Functions\n\n")
		sb.WriteString("| Function | Category | Description |\n|---|---|---|\n")
		for _, b := range result.Builtins {
			fmt.Fprintf(&sb, "| `%s(%s)` | %s | %s |\n", b.Name, strings.Join(b.Params, ", "), b.Category, escapeCell(b.Description))
		}

	case "operator-list":
		sb.WriteString("# Operators\n\n")
		sb.WriteString("| Operator | Category | Description |\n|---|---|---|\n")
		for _, op := range result.Operators {
			fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", op.Symbol, op.Category, escapeCell(op.Description))
		}

	case "keyword-list":
		sb.WriteString("# Keywords\n\n")
		sb.WriteString("| Keyword | Description | Example |\n|---|---|---|\n")
		for _, k := range result.Keywords {
			fmt.Fprintf(&sb, "| `%s` | %s | `%s` |\n", k.Keyword, escapeCell(k.Description), k.Example)
		}

	case "type-list":
		sb.WriteString("# Types\n\n")
		sb.WriteString("| Type | Description |\n|---|---|\n")
		for _, ty := range result.Types {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", ty.Name, escapeCell(ty.Description))
		}

	default:
		fmt.Fprintf(&sb, "# %s `%s`\n\n%s\n", title(result.Kind), result.Name, result.Description)
		if result.Example != "" {
			fmt.Fprintf(&sb, "\n```\n%s\n```\n", result.Example)
		}
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// FormatHTML renders the Markdown form of a TopicResult to HTML.
func FormatHTML(result *TopicResult) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(FormatMarkdown(result)), &buf); err != nil {
		return "", fmt.Errorf("rendering help: %w", err)
	}
	return buf.String(), nil
}
