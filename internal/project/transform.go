package project

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // compiled once, read-only
var (
	simpleMemSection    = regexp.MustCompile(`\n## SimpleMem Instructions[\s\S]*?<!-- SIMPLEMEM:END -->\n?`)
	reliefPilotSection  = regexp.MustCompile(`## 0\. Critical Requirement[\s\S]*?\n## 1\. Mandatory Protocols\n`)
	toolsFrontMatterKey = regexp.MustCompile(`(?m)^tools:.*$`)
)

// StripSimpleMem removes every SimpleMem section, from its heading through
// the SIMPLEMEM:END marker, from an AGENTS.md document.
func StripSimpleMem(content string) string {
	return simpleMemSection.ReplaceAllLiteralString(content, "\n")
}

// StripReliefPilot removes the first "## 0. Critical Requirement" section of
// the copilot instructions, keeping the "## 1. Mandatory Protocols" heading
// that follows it.
func StripReliefPilot(content string) string {
	loc := reliefPilotSection.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[0]] + "## 1. Mandatory Protocols\n" + content[loc[1]:]
}

// ApplyCreatorTools replaces the first line starting with "tools:" with the
// trimmed tools block. Content without such a line is returned unchanged.
func ApplyCreatorTools(content, toolsBlock string) string {
	loc := toolsFrontMatterKey.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[:loc[0]] + strings.TrimSpace(toolsBlock) + content[loc[1]:]
}
