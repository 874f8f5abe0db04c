package project

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

//nolint:gochecknoglobals // read-only lookup table
var stackDisplayNames = map[string]string{
	"react-vite": "React + Vite",
	"nextjs":     "Next.js",
	"vue":        "Vue.js",
	"nuxtjs":     "Nuxt.js",
	"fastapi":    "FastAPI",
	"django":     "Django",
	"flask":      "Flask",
	"express":    "Express.js",
	"nestjs":     "NestJS",
	"postgresql": "PostgreSQL",
	"mysql":      "MySQL",
	"mongodb":    "MongoDB",
	"turso":      "Turso",
	"other":      "To be specified",
}

// dashCommandTools use "/opsx-ff" instead of "/opsx:ff" for slash commands.
//
//nolint:gochecknoglobals // read-only lookup table
var dashCommandTools = map[string]bool{
	constants.CopilotAgent: true,
	"cursor":               true,
	"windsurf":             true,
}

// StackDisplayName returns the human name of a stack id, or the id itself.
func StackDisplayName(stack string) string {
	if name, ok := stackDisplayNames[stack]; ok {
		return name
	}
	return stack
}

// TemplateDisplayName turns "web-app" into "Web App".
func TemplateDisplayName(template string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(template, "-", " "))
}

// OpsxFFCommand returns the fast-forward slash command for the agent.
func OpsxFFCommand(aiTool string) string {
	if dashCommandTools[aiTool] {
		return "/opsx-ff initial-setup"
	}
	return "/opsx:ff initial-setup"
}

// ComponentDisplay renders "No" for a disabled component and "Yes (<stack>)"
// for an enabled one. An enabled component without a stack is an error
// naming field.
func ComponentDisplay(enabled bool, stack, field string) (string, error) {
	if !enabled {
		return "No", nil
	}
	if stack == "" {
		return "", svperrors.Validation(field+" is required when the component is enabled.").
			WithContext("field", field)
	}
	return "Yes (" + stack + ")", nil
}

// YesNo renders a flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
