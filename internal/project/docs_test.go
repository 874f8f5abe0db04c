package project

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechmeat/start-vibe-project/internal/domain"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

func fullStackConfig() domain.ProjectConfig {
	return domain.ProjectConfig{
		Name:          "shop",
		Template:      domain.TemplateWebApp,
		Description:   "Sell things online.",
		Components:    domain.Components{Frontend: true, Backend: true, Database: true, Auth: true},
		FrontendStack: "nextjs",
		BackendStack:  "nestjs",
		DatabaseStack: "postgresql",
		AITool:        "claude-code",
	}
}

func TestAboutMD(t *testing.T) {
	t.Parallel()

	about, err := AboutMD(fullStackConfig())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(about, "# shop\n\n## Vision\n\nSell things online.\n"))
	assert.Contains(t, about, "**Template**: Web App")
	assert.Contains(t, about, "- **Frontend**: Yes (nextjs)\n")
	assert.Contains(t, about, "- **Backend**: Yes (nestjs)\n")
	assert.Contains(t, about, "- **Database**: Yes (postgresql)\n")
	assert.Contains(t, about, "- **Authentication**: Yes\n")

	cfg := fullStackConfig()
	cfg.Description = "   "
	cfg.Components = domain.Components{}
	about, err = AboutMD(cfg)
	require.NoError(t, err)
	assert.Contains(t, about, "_To be defined during project setup._")
	assert.Contains(t, about, "- **Frontend**: No\n")
	assert.Contains(t, about, "- **Authentication**: No\n")
}

func TestSpecsMD(t *testing.T) {
	t.Parallel()

	specs, err := SpecsMD(fullStackConfig())
	require.NoError(t, err)
	assert.Contains(t, specs, "- **Frontend**: Next.js (set explicit versions)")
	assert.Contains(t, specs, "- **Database**: PostgreSQL (set explicit versions)")
	assert.Contains(t, specs, "## Repository Structure")
	assert.Contains(t, specs, "| Next.js | <latest-stable> | Full-stack React framework |")
	assert.Contains(t, specs, "| NestJS | <latest-stable> | Node.js framework |")
	assert.Contains(t, specs, "| PostgreSQL | <latest-stable> | Main data store |")
	assert.Contains(t, specs, "### Authentication")
	assert.Contains(t, specs, "## Open Questions")

	cfg := fullStackConfig()
	cfg.Components = domain.Components{Backend: true}
	cfg.BackendStack = domain.StackOther
	specs, err = SpecsMD(cfg)
	require.NoError(t, err)
	assert.NotContains(t, specs, "## Repository Structure")
	assert.NotContains(t, specs, "### Frontend")
	assert.Contains(t, specs, "| TBD (select backend framework) | <latest-stable> | Core framework |")
	assert.Contains(t, specs, "- **Backend**: TBD (set explicit versions)")
	assert.Contains(t, specs, "- **Database**: No")
}

func TestArchitectureMD(t *testing.T) {
	t.Parallel()

	arch, err := ArchitectureMD(fullStackConfig())
	require.NoError(t, err)
	assert.Contains(t, arch, "## Repository Layout")
	assert.Contains(t, arch, "### Frontend\n- Stack: Next.js\n")
	assert.Contains(t, arch, "### Database\n- Stack: PostgreSQL\n")
	assert.NotContains(t, arch, "Not in scope")

	cfg := fullStackConfig()
	cfg.Components = domain.Components{Frontend: true}
	arch, err = ArchitectureMD(cfg)
	require.NoError(t, err)
	assert.NotContains(t, arch, "## Repository Layout")
	assert.Contains(t, arch, "### Backend\n- Not in scope\n")
	assert.Contains(t, arch, "### Authentication\n- Not in scope\n")
}

func TestDocsRejectEnabledComponentWithoutStack(t *testing.T) {
	t.Parallel()

	cfg := fullStackConfig()
	cfg.FrontendStack = ""

	_, err := AboutMD(cfg)
	require.ErrorIs(t, err, svperrors.ErrValidation)
	_, err = SpecsMD(cfg)
	require.ErrorIs(t, err, svperrors.ErrValidation)
	_, err = ArchitectureMD(cfg)
	require.ErrorIs(t, err, svperrors.ErrValidation)
	_, err = InitValues(cfg, ".claude/skills", "2026-01-01", nil)
	require.ErrorIs(t, err, svperrors.ErrValidation)
}

func TestStoriesMD(t *testing.T) {
	t.Parallel()

	stories := StoriesMD(fullStackConfig())
	assert.Contains(t, stories, "## Story 1: Project setup & baseline")
	assert.Contains(t, stories, "_To be defined based on Web App requirements._")
	assert.Equal(t, 4, strings.Count(stories, "## Story "))
}

func TestPrioritySkillList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  - _No priority repos configured in skill-registry.json_", PrioritySkillList(nil))
	assert.Equal(t,
		"  - `npx skills add a/b --list`\n  - `npx skills add c/d/skills --list`",
		PrioritySkillList([]string{"a/b", "c/d/skills"}))
}

func TestInitValues(t *testing.T) {
	t.Parallel()

	cfg := fullStackConfig()
	cfg.AITool = "cursor"
	values, err := InitValues(cfg, ".cursor/skills", "2026-10-19", []string{"itechmeat/llm-code"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"aiTool":            "cursor",
		"skillsDir":         ".cursor/skills",
		"name":              "shop",
		"templateName":      "Web App",
		"createdDate":       "2026-10-19",
		"prioritySkillList": "  - `npx skills add itechmeat/llm-code --list`",
		"opsxFFCommand":     "/opsx-ff initial-setup",
		"frontendComponent": "Yes (nextjs)",
		"backendComponent":  "Yes (nestjs)",
		"databaseComponent": "Yes (postgresql)",
		"authComponent":     "Yes",
	}, values)
}
