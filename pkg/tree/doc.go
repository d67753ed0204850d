// Package tree provides the nested document value used by configuration
// trees, together with typed paths, resolution and leaf enumeration.
//
// A Value is exactly one of a scalar, a sequence or a mapping. Mappings keep
// insertion order so documents loaded from JSON or YAML enumerate in the
// order they were written.
package tree
