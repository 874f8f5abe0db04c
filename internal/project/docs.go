package project

import (
	"fmt"
	"strings"

	"github.com/itechmeat/start-vibe-project/internal/domain"
)

// ProjectContextMD is the initial content of .project/project-context.md.
const ProjectContextMD = "# Project Context\n\n_Living document that grows with the project._\n"

// stackRow is one line of a technology table.
type stackRow struct {
	name    string
	purpose string
}

// components renders the three stack-bearing components, failing when an
// enabled component has no stack.
type components struct {
	frontend string
	backend  string
	database string
}

func componentDisplays(cfg domain.ProjectConfig) (components, error) {
	var c components
	var err error
	if c.frontend, err = ComponentDisplay(cfg.Components.Frontend, cfg.FrontendStack, "frontendStack"); err != nil {
		return c, err
	}
	if c.backend, err = ComponentDisplay(cfg.Components.Backend, cfg.BackendStack, "backendStack"); err != nil {
		return c, err
	}
	if c.database, err = ComponentDisplay(cfg.Components.Database, cfg.DatabaseStack, "databaseStack"); err != nil {
		return c, err
	}
	return c, nil
}

// AboutMD renders .project/about.md.
func AboutMD(cfg domain.ProjectConfig) (string, error) {
	comp, err := componentDisplays(cfg)
	if err != nil {
		return "", err
	}

	vision := cfg.Description
	if strings.TrimSpace(vision) == "" {
		vision = "_To be defined during project setup._"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n## Vision\n\n%s\n\n", cfg.Name, vision)
	b.WriteString(`## Problem & Opportunity

### The Problem

_To be defined by the agent._

### The Opportunity

_To be defined by the agent._

## Goals

### Primary Goals

1. _Goal 1_
2. _Goal 2_
3. _Goal 3_

### Success Criteria

_To be defined by the agent._

## Target Audience

_To be defined by the agent._

## Value Proposition

_To be defined by the agent._

## Features & Capabilities

### Core Features (MVP)

_To be defined by the agent._

### Future Features

_To be defined by the agent._

## Scope Boundaries

### In Scope

_To be defined by the agent._

### Out of Scope

_To be defined by the agent._

`)
	fmt.Fprintf(&b, "## Project Type\n\n**Template**: %s\n\n", TemplateDisplayName(cfg.Template))
	b.WriteString("## Technical Components\n\n")
	fmt.Fprintf(&b, "- **Frontend**: %s\n", comp.frontend)
	fmt.Fprintf(&b, "- **Backend**: %s\n", comp.backend)
	fmt.Fprintf(&b, "- **Database**: %s\n", comp.database)
	fmt.Fprintf(&b, "- **Authentication**: %s\n", YesNo(cfg.Components.Auth))
	return b.String(), nil
}

func frontendRows(stack string) []stackRow {
	switch stack {
	case "", domain.StackOther:
		return []stackRow{{"TBD (select frontend framework)", "Core framework"}}
	case "react-vite":
		return []stackRow{{"React", "UI framework"}, {"Vite", "Build tool + dev server"}}
	case "nextjs":
		return []stackRow{{"Next.js", "Full-stack React framework"}}
	case "vue":
		return []stackRow{{"Vue", "UI framework"}}
	case "nuxtjs":
		return []stackRow{{"Nuxt", "Full-stack Vue framework"}}
	default:
		return []stackRow{{stack, "Core framework"}}
	}
}

func backendRows(stack string) []stackRow {
	switch stack {
	case "", domain.StackOther:
		return []stackRow{{"TBD (select backend framework)", "Core framework"}}
	case "fastapi":
		return []stackRow{{"FastAPI", "API framework"}}
	case "django":
		return []stackRow{{"Django", "Web framework"}}
	case "flask":
		return []stackRow{{"Flask", "Web framework"}}
	case "express":
		return []stackRow{{"Express", "HTTP framework"}}
	case "nestjs":
		return []stackRow{{"NestJS", "Node.js framework"}}
	default:
		return []stackRow{{stack, "Core framework"}}
	}
}

func databaseRows(stack string) []stackRow {
	primary := "Primary DB (TBD)"
	if stack != "" && stack != domain.StackOther {
		primary = StackDisplayName(stack)
	}
	return []stackRow{{primary, "Main data store"}, {"Cache/Session (TBD)", "Cache + sessions"}}
}

func writeStackTable(b *strings.Builder, rows []stackRow) {
	b.WriteString("| Technology | Version | Purpose |\n|------------|---------|---------|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | <latest-stable> | %s |\n", r.name, r.purpose)
	}
}

func versionedSummary(enabled bool, stack, tbd string) string {
	if !enabled {
		return "No"
	}
	if stack == "" || stack == domain.StackOther {
		return tbd
	}
	return StackDisplayName(stack) + " (set explicit versions)"
}

// SpecsMD renders .project/specs.md.
func SpecsMD(cfg domain.ProjectConfig) (string, error) {
	if _, err := componentDisplays(cfg); err != nil {
		return "", err
	}
	c := cfg.Components

	authSummary := "No"
	if c.Auth {
		authSummary = "TBD (select auth tech + latest stable versions)"
	}

	var b strings.Builder
	b.WriteString("# Technical Specifications\n\n## Project Summary\n\n")
	fmt.Fprintf(&b, "- **Project**: %s\n", cfg.Name)
	fmt.Fprintf(&b, "- **Template**: %s\n", TemplateDisplayName(cfg.Template))
	fmt.Fprintf(&b, "- **Frontend**: %s\n", versionedSummary(c.Frontend, cfg.FrontendStack, "TBD (set explicit versions)"))
	fmt.Fprintf(&b, "- **Backend**: %s\n", versionedSummary(c.Backend, cfg.BackendStack, "TBD (set explicit versions)"))
	fmt.Fprintf(&b, "- **Database**: %s\n", versionedSummary(c.Database, cfg.DatabaseStack, "TBD (select database tech + latest stable versions)"))
	fmt.Fprintf(&b, "- **Authentication**: %s\n\n", authSummary)

	b.WriteString(`## Version Policy

> ⚠️ **STRICT RULE**: Downgrading package versions is **FORBIDDEN**. Upgrading is allowed.

---

## Technology Stack

> **IMPORTANT**: Replace every <latest-stable> placeholder with a concrete version.
> Find the latest stable versions via web search or ask the user by offering 2-3 options at once.
> Do **not** leave "Yes", "TBD", or "latest" in the final document.

`)

	if c.Frontend && c.Backend {
		b.WriteString(`## Repository Structure

- The project must be split into **frontend/** and **backend/** folders at the repository root.
- Each folder owns its own dependencies, tooling, and build pipeline.

`)
	}

	if c.Frontend {
		b.WriteString("### Frontend\n\n")
		writeStackTable(&b, frontendRows(cfg.FrontendStack))
		b.WriteString(`
#### Frontend Requirements
- Rendering strategy (SSR/SSG/CSR) and routing approach
- State management strategy (local state vs global store)
- UI component strategy (design system / component library)
- Accessibility targets (WCAG level)
- Internationalization requirements (if any)

`)
	}

	if c.Backend {
		b.WriteString("### Backend\n\n")
		writeStackTable(&b, backendRows(cfg.BackendStack))
		b.WriteString(`
#### Backend Requirements
- API style (REST/GraphQL/RPC) and versioning strategy
- Error handling and response conventions
- Rate limiting, pagination, and request validation rules
- Background jobs/queues requirements (if any)

`)
	}

	if c.Database {
		b.WriteString("### Database\n\n")
		writeStackTable(&b, databaseRows(cfg.DatabaseStack))
		b.WriteString(`
#### Database Requirements
- Primary data store type (SQL/NoSQL) and rationale
- Migration strategy and tooling
- Backup/restore requirements and retention policy
- Data lifecycle and archival rules

`)
	}

	if c.Auth {
		b.WriteString("### Authentication\n\n")
		writeStackTable(&b, []stackRow{
			{"Auth provider/protocol (TBD)", "Authentication"},
			{"Token format (TBD)", "Access/refresh tokens"},
		})
		b.WriteString(`
#### Authentication Requirements
- Auth provider and protocol (OAuth/OIDC/Sessions/JWT)
- Authorization model (RBAC/ABAC/Custom)
- Session management and token lifecycle
- MFA and password policy requirements

`)
	}

	b.WriteString(specsTail)
	return b.String(), nil
}

const specsTail = `---

## Runtime & Tooling

- **Node.js**: _Version to be specified_
- **Package manager**: _npm/pnpm/yarn/bun (choose one)_
- **TypeScript**: _Version to be specified (if used)_
- **Build tooling**: _To be specified_

## Environment & Configuration

- List required environment variables with purpose
- Document secrets management approach (vault/secret manager)
- Local development setup requirements

## API & Contracts

- Define API surface and major endpoints
- Request/response schemas and validation rules
- Error formats and status code conventions

## Observability

- Logging strategy and log levels
- Metrics to collect (latency, errors, throughput)
- Tracing requirements (if any)

## Security Requirements

- Dependency vulnerability scanning
- Secrets management and rotation policy
- Data encryption at rest/in transit
- Audit logging requirements

## Quality Standards

- Linting/formatting rules
- Testing strategy (unit/integration/e2e)
- Coverage targets
- CI quality gates

## Deployment & Operations

- Environments (dev/stage/prod) and parity rules
- Deployment strategy (blue/green, rolling, canary)
- Rollback plan
- Monitoring and alerting thresholds

## Performance & Scalability

- Performance budgets (TTFB, API latency)
- Scaling targets (RPS, concurrency)
- Caching strategy

## Open Questions

- List unresolved technical decisions
`

// ArchitectureMD renders .project/architecture.md.
func ArchitectureMD(cfg domain.ProjectConfig) (string, error) {
	if _, err := componentDisplays(cfg); err != nil {
		return "", err
	}
	c := cfg.Components

	var b strings.Builder
	b.WriteString("# System Architecture\n\n## Overview\n\n")
	fmt.Fprintf(&b, "- **Project**: %s\n", cfg.Name)
	fmt.Fprintf(&b, "- **Template**: %s\n\n", TemplateDisplayName(cfg.Template))
	b.WriteString(`## Architecture Goals

- Reliability and clarity of system boundaries
- Maintainable, modular components
- Security-first handling of data and auth
- Scalability aligned with expected usage

`)
	if c.Frontend && c.Backend {
		b.WriteString(`## Repository Layout

- **frontend/**: client app and UI
- **backend/**: API and server-side services

`)
	}
	b.WriteString("## High-Level Components\n\n")

	section := func(title string, enabled bool, body string) {
		if enabled {
			fmt.Fprintf(&b, "### %s\n%s\n", title, body)
		} else {
			fmt.Fprintf(&b, "### %s\n- Not in scope\n\n", title)
		}
	}
	section("Frontend", c.Frontend, fmt.Sprintf(
		"- Stack: %s\n- Responsibilities: UI rendering, client-side routing, state management\n- Integration points: API layer, auth, analytics\n",
		StackDisplayName(cfg.FrontendStack)))
	section("Backend", c.Backend, fmt.Sprintf(
		"- Stack: %s\n- Responsibilities: API endpoints, business logic, integrations\n- Integration points: database, auth provider, observability\n",
		StackDisplayName(cfg.BackendStack)))
	section("Database", c.Database, fmt.Sprintf(
		"- Stack: %s\n- Data model overview and storage strategy\n- Migration/rollback strategy\n- Backup and recovery requirements\n",
		StackDisplayName(cfg.DatabaseStack)))
	section("Authentication", c.Auth,
		"- Auth flow (login, refresh, logout)\n- Authorization model and roles\n- Session/token lifecycle\n")

	b.WriteString(architectureTail)
	return b.String(), nil
}

const architectureTail = `## Data Flow

- Describe main user journeys and request flow
- Define how data moves between frontend, backend, and storage
- Identify synchronous vs async flows

## API Design

- Define API surface and versioning
- Error format and status codes
- Pagination, filtering, and sorting conventions

## Infrastructure & Deployment

- Deployment environments and parity rules
- CI/CD pipeline overview
- Rollback strategy and disaster recovery

## Observability

- Logging strategy and retention
- Metrics and alerting thresholds
- Tracing requirements

## Security

- Secrets management approach
- Data encryption requirements
- Threat model highlights

## Scalability & Performance

- Expected load and growth targets
- Caching strategy and layers
- Bottlenecks and mitigation plan

## Dependencies & Integrations

- External services and SLAs
- SDKs or third-party APIs

## Risks & Open Questions

- Identify architectural risks
- List unresolved decisions
`

// StoriesMD renders .project/stories/stories.md.
func StoriesMD(cfg domain.ProjectConfig) string {
	return fmt.Sprintf(`# User Stories

## Story 1: Project setup & baseline

As a developer, I want the project baseline fully configured so that the team can start building features confidently.

**Acceptance Criteria**
- Project dependencies installed and lockfile committed
- Environment configuration documented
- Basic scripts (lint/test/build) verified
- Optional Docker setup documented (if required)
- CI pipeline skeleton confirmed

---

## Story 2: Core feature #1

_To be defined based on %s requirements._

## Story 3: Core feature #2

_To be defined._

## Story 4: Nice-to-have feature

_To be defined._
`, TemplateDisplayName(cfg.Template))
}

// Gitignore is the .gitignore written into every project.
const Gitignore = `# Dependencies
node_modules/
.pnpm-store/

# Build outputs
dist/
build/
.next/
.nuxt/
.output/

# Environment
.env
.env.local
.env.*.local

# IDE
.idea/
.vscode/
*.swp
*.swo
.DS_Store

# Logs
*.log
npm-debug.log*
yarn-debug.log*
yarn-error.log*

# Testing
coverage/

# Misc
.cache/
tmp/
`

// PrioritySkillList renders the INIT.md list of repositories to browse.
func PrioritySkillList(repos []string) string {
	if len(repos) == 0 {
		return "  - _No priority repos configured in skill-registry.json_"
	}
	lines := make([]string, 0, len(repos))
	for _, repo := range repos {
		lines = append(lines, "  - `npx skills add "+repo+" --list`")
	}
	return strings.Join(lines, "\n")
}

// InitValues returns the INIT.md placeholder values.
func InitValues(cfg domain.ProjectConfig, skillsDir, createdDate string, priorityRepos []string) (map[string]string, error) {
	comp, err := componentDisplays(cfg)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"aiTool":            cfg.AITool,
		"skillsDir":         skillsDir,
		"name":              cfg.Name,
		"templateName":      TemplateDisplayName(cfg.Template),
		"createdDate":       createdDate,
		"prioritySkillList": PrioritySkillList(priorityRepos),
		"opsxFFCommand":     OpsxFFCommand(cfg.AITool),
		"frontendComponent": comp.frontend,
		"backendComponent":  comp.backend,
		"databaseComponent": comp.database,
		"authComponent":     YesNo(cfg.Components.Auth),
	}, nil
}
