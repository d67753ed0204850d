// Package texts holds small text helpers used while wrangling raw data:
// fuzzy grouping of similar words, format validators and company name
// cleanup.
package texts
