// Package storage keeps project data on disk and in object storage.
//
// Records are stored as JSON lines, one document per line, with key order
// preserved. Remote copies go through the aws command line tool, which must
// be installed and configured through the usual AWS environment variables.
package storage
