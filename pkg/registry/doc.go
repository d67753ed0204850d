// Package registry provides a generic, thread-safe name to item registry.
// Items remember the order they were registered in, and a registry can be
// frozen once it has been filled.
package registry
