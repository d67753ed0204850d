package cli

// Command descriptions
const (
	MsgRootShort = "Resolve project configurations and inspect data tables"
	MsgRootLong  = `hafer keeps the configuration of a data or machine learning project in one
nested document. Artifact locations given as "local" and "name" are resolved
against a base folder, so every step of a project reads the same absolute
paths.`

	MsgVersionShort = "Print version information"
	MsgVersionLong  = "Print detailed version information including commit hash and build date"

	MsgConfigShort   = "Write a new project configuration"
	MsgConfigLong    = "Write the default project document to the given path. Missing folders and existing files are only touched after confirmation."
	MsgConfigExample = `  hafer config config.json            # JSON, the default
  hafer config conf/project.yaml      # YAML, creating conf/ after asking
  hafer config config.json --yes      # overwrite without asking`

	MsgGetShort   = "Print a value of a project configuration"
	MsgGetLong    = "Resolve a path expression such as etl.raw.local_absolute or $.model.rf against the configuration, with local paths made absolute."
	MsgGetExample = `  hafer get config.json etl.raw.local_absolute
  hafer get config.json model -o yaml --base-folder /srv/project`

	MsgPathsShort = "List every leaf path of a project configuration"
	MsgPathsLong  = "List the paths of a project configuration in document order, optionally with their values."

	MsgDescribeShort = "Summarise the sections and artifacts of a project configuration"

	MsgPreviewShort = "Show the first rows of a table file"
	MsgPreviewLong  = "Show the first rows of a .csv, .jsonl or .xlsx file as a table."
)

// Prompts and results
const (
	MsgNotInteractive  = "standard input is not a terminal, pass --yes to confirm"
	MsgCreatedConfig   = "Created %s config at %s"
	MsgOverwroteConfig = "Overwrote %s config at %s"
	MsgCountdown       = "Overwriting %s in %s"
	MsgVersionFormat   = "hafer version %s\n"
	MsgCommitFormat    = "Commit: %s\n"
	MsgBuiltFormat     = "Built:  %s\n"
)
