// Package constants provides centralized constant values used throughout
// start-vibe-project. This package MUST NOT import any other internal packages.
package constants

import "time"

// AppName is the binary and directory name used for config, state and logs.
const AppName = "start-vibe-project"

// Directory and file names written into a generated project.
const (
	// ProjectMetaDir holds the generated planning documents.
	ProjectMetaDir = ".project"

	// StoriesDir is the stories subdirectory inside ProjectMetaDir.
	StoriesDir = "stories"

	// ChecksumFileName is the skill checksum manifest stored in the skills directory.
	ChecksumFileName = ".checksums.json"

	// CopilotAgent is the agent id whose ecosystem uses .github/instructions.
	CopilotAgent = "github-copilot"
)

// Asset layout relative to the asset root.
const (
	// AssetManifest marks the asset root. The loader walks upward until it finds it.
	AssetManifest = "start-vibe-project.yaml"

	// TemplatesDir contains templates that are rendered before writing.
	TemplatesDir = "templates"

	// FilesDir contains assets that are copied (optionally edited) verbatim.
	FilesDir = "files"

	// DataDir contains packaged reference data such as the skill registry.
	DataDir = "data"

	// SkillRegistryFile is the registry file name inside DataDir.
	SkillRegistryFile = "skill-registry.json"

	// MaxRootSearchDepth caps the upward search for AssetManifest.
	MaxRootSearchDepth = 8
)

// Progress and run-state locations, relative to the working directory.
const (
	// ProgressDir is the default directory for progress files.
	ProgressDir = ".start-vibe-project"

	// LogsDir is the log directory name under the XDG state home.
	LogsDir = "logs"

	// CLILogFileName is the rotating CLI log file.
	CLILogFileName = "cli.log"

	// GlobalConfigFileName is the config file under the XDG config home.
	GlobalConfigFileName = "config.yaml"
)

// Log rotation settings.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 14
	LogCompress   = true
)

// Timeouts for external commands.
const (
	// DefaultCommandTimeout applies when a caller does not set one.
	DefaultCommandTimeout = 5 * time.Minute

	// SkillInstallTimeout bounds a single skills-installer invocation.
	SkillInstallTimeout = 5 * time.Minute

	// CompanionInstallTimeout bounds the global companion-tool install.
	CompanionInstallTimeout = 2 * time.Minute

	// ProcessWaitDelay is how long a terminated process may take to release its pipes.
	ProcessWaitDelay = 3 * time.Second
)

// Companion tool and git defaults.
const (
	// CompanionPackage is installed globally during finalize.
	CompanionPackage = "@fission-ai/openspec@latest"

	// InitialCommitMessage is used for the first commit of a generated project.
	InitialCommitMessage = "chore(init): scaffold project with start-vibe-project CLI"
)

// Retry and circuit breaker defaults.
const (
	MaxRetryAttempts  = 3
	InitialBackoff    = 1 * time.Second
	MaxBackoff        = 30 * time.Second
	BackoffMultiplier = 2.0
	BackoffJitter     = 0.25

	BreakerFailureThreshold = 5
	BreakerResetTimeout     = 30 * time.Second
	BreakerHalfOpenMaxCalls = 3
)

// File permissions.
const (
	DirPerm  = 0o750
	FilePerm = 0o644
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision, used for
// progress and checksum files.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// SkillsCommand launches the skills-installer CLI.
const SkillsCommand = "npx"
