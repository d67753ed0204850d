// Package config loads nested project configuration documents and resolves
// the artifact locations they declare.
//
// Any subtree holding a "local" key gains "local_absolute", the local path
// joined onto the base folder, and, when it also holds "name",
// "name_absolute", the name joined onto local_absolute.
//
// The package also loads the tool's own settings (embedded defaults, an
// optional hafer.toml and HAFER_* environment variables) and scaffolds new
// project documents.
package config
