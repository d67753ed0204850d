package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/tree"
)

// RenderPath colors the keys and indices of p.
func RenderPath(p tree.Path) string {
	if len(p) == 0 {
		return MutedStyle.Render("(root)")
	}
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex() {
			b.WriteString(IndexStyle.Render(seg.String()))
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(KeyStyle.Render(seg.String()))
	}
	return b.String()
}

// RenderPaths lists paths one per line, optionally followed by the leaf
// value found at each.
func RenderPaths(root *tree.Value, paths []tree.Path, withValues bool) string {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(RenderPath(p))
		if withValues {
			if v, ok := tree.Lookup(root, p); ok && v.IsScalar() {
				b.WriteString(" = ")
				b.WriteString(PathStyle.Render(fmt.Sprint(v.Raw())))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSuccess prefixes msg with a check mark.
func RenderSuccess(msg string) string {
	return SuccessIndicator + " " + msg
}

// RenderError shows the code of a coded error and its details.
func RenderError(err error) string {
	if err == nil {
		return ""
	}
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s",
		pterm.Error.Prefix.Text,
		ErrorStyle.Render(string(code)),
		err.Error()))

	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(Indent(MutedStyle.Render(fmt.Sprintf("%s: %v", k, details[k])), 1))
	}
	return b.String()
}
