// Package testutil provides file helpers, assertions and fixtures shared by
// hafer tests.
package testutil
