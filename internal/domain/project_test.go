package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

func validConfig() ProjectConfig {
	return ProjectConfig{
		Name:          "demo-app",
		Template:      TemplateWebApp,
		Components:    Components{Frontend: true, Backend: true},
		FrontendStack: "react-vite",
		BackendStack:  "fastapi",
		AITool:        "claude-code",
	}
}

func TestProjectConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*ProjectConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*ProjectConfig) {}},
		{name: "empty name", mutate: func(c *ProjectConfig) { c.Name = "" }, wantErr: "Project name is required"},
		{name: "uppercase name", mutate: func(c *ProjectConfig) { c.Name = "Demo" }, wantErr: "Name must be lowercase"},
		{name: "leading digit", mutate: func(c *ProjectConfig) { c.Name = "1demo" }, wantErr: "Name must be lowercase"},
		{name: "path in name", mutate: func(c *ProjectConfig) { c.Name = "../demo" }, wantErr: "Name must be lowercase"},
		{name: "unknown template", mutate: func(c *ProjectConfig) { c.Template = "desktop" }, wantErr: "Unsupported project template: desktop"},
		{name: "display-only template", mutate: func(c *ProjectConfig) { c.Template = "library" }, wantErr: "Unsupported project template"},
		{name: "frontend without stack", mutate: func(c *ProjectConfig) { c.FrontendStack = "" }, wantErr: "Frontend stack is required"},
		{name: "backend without stack", mutate: func(c *ProjectConfig) { c.BackendStack = "" }, wantErr: "Backend stack is required"},
		{
			name: "database without stack",
			mutate: func(c *ProjectConfig) {
				c.Components.Database = true
			},
			wantErr: "Database stack is required",
		},
		{name: "missing ai tool", mutate: func(c *ProjectConfig) { c.AITool = "" }, wantErr: "AI tool is required"},
		{
			name: "disabled component ignores stack",
			mutate: func(c *ProjectConfig) {
				c.Components.Frontend = false
				c.FrontendStack = ""
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorIs(t, err, svperrors.ErrValidation)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestProjectConfig_IsMobile(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	assert.False(t, cfg.IsMobile())
	cfg.Template = TemplateMobileApp
	assert.True(t, cfg.IsMobile())
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	assert.True(t, IsCreatableTemplate(TemplateAPIService))
	assert.False(t, IsCreatableTemplate("empty"))
	assert.False(t, IsCreatableTemplate("nope"))

	tpl, ok := FindTemplate(TemplateMobileApp)
	require.True(t, ok)
	assert.Equal(t, "Mobile Application", tpl.Name)

	assert.Equal(t, "Next.js", StackName(FrontendStacks(), "nextjs"))
	assert.Equal(t, "NestJS (Node.js)", StackName(BackendStacks(), "nestjs"))
	assert.Equal(t, "PostgreSQL", StackName(DatabaseStacks(), "postgresql"))
	assert.Equal(t, "solid", StackName(FrontendStacks(), "solid"))
}
