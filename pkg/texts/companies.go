package texts

import (
	"net/url"
	"strings"

	"github.com/haferml/hafer/pkg/logging"
)

// DefaultLegalForms are the legal form suffixes removed when
// CleanOptions.RemoveLegalForm is set without a list.
var DefaultLegalForms = []string{
	"GmbH & Co. KG", "GmbH", "gmbh", "mbH", "AG", "ag", "KG", "OHG", "UG", "e.V.", "e.K.",
	"SE", "S.A.", "SAS", "SARL", "S.r.l.", "B.V.", "N.V.", "Ltd.", "Ltd", "LLC", "Inc.", "Inc",
}

// CleanOptions select optional cleanup steps.
type CleanOptions struct {
	RemoveLegalForm bool
	// LegalForms replaces DefaultLegalForms and implies RemoveLegalForm.
	LegalForms []string

	RemoveChars bool
	// Chars replaces the default `"` and implies RemoveChars.
	Chars []string

	// NameMap renames cleaned names, keyed by the cleaned name.
	NameMap map[string]string
}

var forbiddenLeading = []string{"*", "=", "#", "%", "+"}

// CleanCompanyName normalizes a company name: URL escapes are decoded,
// formula characters among the first three characters dropped, legal forms
// and unwanted characters removed, and the result lower-cased.
func CleanCompanyName(name string, opts CleanOptions) string {
	logger := logging.GetLogger("texts")
	logger.Trace().Str("company_name", name).Msg("cleaning company name")

	if unquoted, err := url.PathUnescape(name); err == nil {
		name = unquoted
	}
	name = strings.TrimSpace(name)

	runes := []rune(name)
	head, tail := runes, []rune(nil)
	if len(runes) > 3 {
		head, tail = runes[:3], runes[3:]
	}
	h := string(head)
	for _, c := range forbiddenLeading {
		h = strings.ReplaceAll(h, c, "")
	}
	name = strings.TrimSpace(h + string(tail))

	forms := opts.LegalForms
	if len(forms) == 0 && opts.RemoveLegalForm {
		forms = DefaultLegalForms
	}
	for _, form := range forms {
		if suffix := " " + form; strings.HasSuffix(name, suffix) {
			logger.Trace().Str("legal_form", form).Msg("removing legal form")
			name = strings.TrimSuffix(name, suffix)
		}
	}
	name = strings.TrimSpace(name)

	chars := opts.Chars
	if len(chars) == 0 && opts.RemoveChars {
		chars = []string{`"`}
	}
	for _, c := range chars {
		name = strings.ReplaceAll(name, c, "")
	}

	name = strings.ToLower(name)

	if mapped, ok := opts.NameMap[name]; ok {
		logger.Debug().Str("from", name).Str("to", mapped).Msg("company name mapped")
		name = mapped
	}
	return name
}
