package domain

// TemplateInfo describes a project template offered by the CLI.
type TemplateInfo struct {
	ID          string
	Name        string
	Description string
	// Creatable is false for templates that are listed but not yet
	// supported by the creation pipeline.
	Creatable bool
}

// Stack is a selectable technology for one component.
type Stack struct {
	ID   string
	Name string
}

// StackOther lets the agent pick the technology later.
const StackOther = "other"

// Templates returns the template catalogue in display order.
func Templates() []TemplateInfo {
	return []TemplateInfo{
		{ID: TemplateWebApp, Name: "Web Application", Description: "Full-stack or frontend web application", Creatable: true},
		{ID: TemplateMobileApp, Name: "Mobile Application", Description: "iOS, Android, or cross-platform mobile app", Creatable: true},
		{ID: TemplateAPIService, Name: "API Service", Description: "Backend REST or GraphQL API service", Creatable: true},
		{ID: "library", Name: "Library / Package", Description: "Reusable library or npm package"},
		{ID: "empty", Name: "Empty Project", Description: "Blank project with just documentation structure"},
	}
}

// FrontendStacks returns the frontend catalogue.
func FrontendStacks() []Stack {
	return []Stack{
		{ID: "react-vite", Name: "React + Vite"},
		{ID: "nextjs", Name: "Next.js"},
		{ID: "vue", Name: "Vue.js"},
		{ID: "nuxtjs", Name: "Nuxt.js"},
		{ID: StackOther, Name: "Other (to be specified by agent)"},
	}
}

// BackendStacks returns the backend catalogue.
func BackendStacks() []Stack {
	return []Stack{
		{ID: "fastapi", Name: "FastAPI (Python)"},
		{ID: "django", Name: "Django (Python)"},
		{ID: "flask", Name: "Flask (Python)"},
		{ID: "express", Name: "Express.js (Node.js)"},
		{ID: "nestjs", Name: "NestJS (Node.js)"},
		{ID: StackOther, Name: "Other (to be specified by agent)"},
	}
}

// DatabaseStacks returns the database catalogue.
func DatabaseStacks() []Stack {
	return []Stack{
		{ID: "postgresql", Name: "PostgreSQL"},
		{ID: "mysql", Name: "MySQL"},
		{ID: "mongodb", Name: "MongoDB"},
		{ID: "turso", Name: "Turso (libSQL)"},
		{ID: StackOther, Name: "Other (to be specified by agent)"},
	}
}

// FindTemplate returns the template with id.
func FindTemplate(id string) (TemplateInfo, bool) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return TemplateInfo{}, false
}

// IsCreatableTemplate reports whether the pipeline can scaffold id.
func IsCreatableTemplate(id string) bool {
	t, ok := FindTemplate(id)
	return ok && t.Creatable
}

// StackName returns the catalogue name of id in stacks, or id itself when
// the stack is not catalogued.
func StackName(stacks []Stack, id string) string {
	for _, s := range stacks {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}
