package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/haferml/hafer/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/haferml/hafer/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/haferml/hafer/internal/version.Date={{.Date}}
)
