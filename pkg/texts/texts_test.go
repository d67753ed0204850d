package texts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/texts"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, texts.Ratio("Berlin", "berlin"))
	assert.Equal(t, 100, texts.Ratio("", ""))
	assert.Equal(t, 86, texts.Ratio("Tima", "Tim"))
	assert.Equal(t, 88, texts.Ratio("abcd", "abce"))
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100, texts.PartialRatio("Tima Cook", "Tim"))
	assert.Equal(t, 100, texts.PartialRatio("tim", "Tima Cook"))
	assert.Equal(t, 60, texts.PartialRatio("apple", "banana"))
	assert.Equal(t, 0, texts.PartialRatio("", "abc"))
}

func TestFuzzyGroupWords(t *testing.T) {
	words := []string{"apple inc", "apple", "banana", "apple"}

	groups := texts.FuzzyGroupWords(words, texts.GroupOptions{})
	assert.Equal(t, [][]string{
		{"apple inc", "apple"},
		{"apple", "apple inc"},
		{"banana"},
		{"apple", "apple inc"},
	}, groups)

	strict := texts.FuzzyGroupWords(words, texts.GroupOptions{Scorer: texts.Ratio, Threshold: 100})
	assert.Equal(t, []string{"apple inc"}, strict[0])

	assert.Empty(t, texts.FuzzyGroupWords(nil, texts.GroupOptions{}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  string
		want  bool
	}{
		{"domain", "example.com", "domain", true},
		{"sub_domain", "data.example.co", "domain", true},
		{"no_tld", "localhost", "domain", false},
		{"leading_dash", "-bad.com", "domain", false},
		{"email", "ana.b@example.com", "email", true},
		{"email_without_at", "example.com", "email", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := texts.Validate(tt.input, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := texts.Validate("x", "phone")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, []string{"domain", "email"}, texts.ValidatorKinds())
}

func TestCleanCompanyName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  texts.CleanOptions
		want  string
	}{
		{"lower_and_trim", "  ACME Logistics ", texts.CleanOptions{}, "acme logistics"},
		{"url_escaped", "ACME%20Logistics", texts.CleanOptions{}, "acme logistics"},
		{"formula_prefix", "=+ACME", texts.CleanOptions{}, "acme"},
		{"formula_chars_later_kept", "ACM+E", texts.CleanOptions{}, "acm+e"},
		{"legal_form", "Hafer Mills GmbH", texts.CleanOptions{RemoveLegalForm: true}, "hafer mills"},
		{"legal_form_kept", "Hafer Mills GmbH", texts.CleanOptions{}, "hafer mills gmbh"},
		{"custom_legal_form", "Hafer Oy", texts.CleanOptions{LegalForms: []string{"Oy"}}, "hafer"},
		{"quotes", `"Hafer" Mills`, texts.CleanOptions{RemoveChars: true}, "hafer mills"},
		{"name_map", "Hafer GmbH", texts.CleanOptions{RemoveLegalForm: true, NameMap: map[string]string{"hafer": "hafer group"}}, "hafer group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, texts.CleanCompanyName(tt.input, tt.opts))
		})
	}
}
