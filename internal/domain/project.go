// Package domain provides the shared domain types for start-vibe-project:
// the validated project configuration and the catalogues of templates and
// stacks the CLI offers.
package domain

import (
	"regexp"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// Template identifiers accepted by the creation pipeline.
const (
	TemplateWebApp     = "web-app"
	TemplateMobileApp  = "mobile-app"
	TemplateAPIService = "api-service"
)

// projectNamePattern matches lowercase identifiers such as "my-app-2".
var projectNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Components are the independent parts a project may include.
type Components struct {
	Frontend bool `json:"frontend"`
	Backend  bool `json:"backend"`
	Database bool `json:"database"`
	Auth     bool `json:"auth"`
}

// ProjectConfig is the validated input of a project-creation run.
// It is built once at the CLI boundary and never mutated afterwards.
//
// A stack field is set if and only if its component is enabled.
type ProjectConfig struct {
	// Name is the project directory name and display name.
	Name string `json:"name"`

	// Template is one of the Template* identifiers.
	Template string `json:"template"`

	// Description is free text for about.md. It may be empty.
	Description string `json:"description"`

	Components Components `json:"components"`

	FrontendStack string `json:"frontend_stack,omitempty"`
	BackendStack  string `json:"backend_stack,omitempty"`
	DatabaseStack string `json:"database_stack,omitempty"`

	// AITool selects the target coding agent, e.g. "claude-code".
	AITool string `json:"ai_tool"`

	// UseSimpleMem keeps the SimpleMem section in AGENTS.md.
	UseSimpleMem bool `json:"use_simplemem"`

	// UseReliefPilot writes the relief-pilot instructions and keeps the
	// critical-requirement block in copilot-instructions.md.
	UseReliefPilot bool `json:"use_relief_pilot"`
}

// IsMobile reports whether the project uses the mobile template.
func (c ProjectConfig) IsMobile() bool {
	return c.Template == TemplateMobileApp
}

// Validate checks the configuration and returns the first violation as a
// validation error.
func (c ProjectConfig) Validate() error {
	if c.Name == "" {
		return svperrors.Validation("Project name is required").WithContext("field", "name")
	}
	if !projectNamePattern.MatchString(c.Name) {
		return svperrors.Validation("Name must be lowercase, start with a letter, and contain only letters, numbers, and hyphens").
			WithContext("field", "name").
			WithContext("value", c.Name)
	}
	if !IsCreatableTemplate(c.Template) {
		return svperrors.Validation("Unsupported project template: "+c.Template).
			WithContext("field", "template")
	}
	if c.Components.Frontend && c.FrontendStack == "" {
		return svperrors.Validation("Frontend stack is required when frontend is enabled").
			WithContext("field", "frontendStack")
	}
	if c.Components.Backend && c.BackendStack == "" {
		return svperrors.Validation("Backend stack is required when backend is enabled").
			WithContext("field", "backendStack")
	}
	if c.Components.Database && c.DatabaseStack == "" {
		return svperrors.Validation("Database stack is required when database is enabled").
			WithContext("field", "databaseStack")
	}
	if c.AITool == "" {
		return svperrors.Validation("AI tool is required").WithContext("field", "aiTool")
	}
	return nil
}
