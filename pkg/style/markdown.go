package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/haferml/hafer/pkg/tree"
)

// MarkdownRenderer turns markdown into terminal output with glamour.
type MarkdownRenderer struct {
	Style string // "dark", "light", "notty", "auto" or a style file
	Width int    // 0 keeps glamour's default wrapping
}

// NewMarkdownRenderer picks a style for format.
func NewMarkdownRenderer(format Format) *MarkdownRenderer {
	if format == FormatText {
		return &MarkdownRenderer{Style: "notty"}
	}
	return &MarkdownRenderer{Style: "auto"}
}

// Render returns the rendered markdown, or content unchanged if glamour
// fails.
func (r *MarkdownRenderer) Render(content string) string {
	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "dark", "light", "notty":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Artifact is one row of a describe table.
type Artifact struct {
	Path   tree.Path
	Local  string
	Remote string
}

// DescribeMarkdown summarises a project document: its top-level sections
// and the artifacts found in it.
func DescribeMarkdown(title string, root *tree.Value, artifacts []Artifact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if root != nil && root.IsMapping() {
		b.WriteString("## Sections\n\n")
		for _, k := range root.Keys() {
			child, _ := root.Field(k)
			fmt.Fprintf(&b, "- `%s` (%s, %d entries)\n", k, child.Kind(), child.Len())
		}
		b.WriteString("\n")
	}

	b.WriteString("## Artifacts\n\n")
	if len(artifacts) == 0 {
		b.WriteString("No artifacts.\n")
		return b.String()
	}
	b.WriteString("| Artifact | Local | Remote |\n|---|---|---|\n")
	for _, a := range artifacts {
		remote := a.Remote
		if remote == "" {
			remote = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", a.Path.String(), a.Local, remote)
	}
	return b.String()
}
