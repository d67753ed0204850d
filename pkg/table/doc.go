// Package table implements the rectangular, column-named dataset that
// pipelines transform. Cells hold arbitrary values; a nil cell is missing.
package table
