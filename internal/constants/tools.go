package constants

import "time"

// ToolDetectionTimeout bounds the concurrent preflight version probes.
const ToolDetectionTimeout = 10 * time.Second

// External tools the pipeline runs.
const (
	ToolNode = "node"
	ToolNPM  = "npm"
	ToolNPX  = "npx"
	ToolGit  = "git"
)

// Minimum versions. An empty minimum only requires presence.
const (
	MinVersionNode = "18.0.0"
	MinVersionGit  = "2.0.0"
)

// VersionFlag is passed to every tool to print its version.
const VersionFlag = "--version"
