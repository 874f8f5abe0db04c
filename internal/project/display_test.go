package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

func TestStackDisplayName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"react-vite": "React + Vite",
		"nextjs":     "Next.js",
		"express":    "Express.js",
		"postgresql": "PostgreSQL",
		"other":      "To be specified",
		"svelte":     "svelte",
	}
	for id, want := range tests {
		assert.Equal(t, want, StackDisplayName(id), id)
	}
}

func TestTemplateDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Web App", TemplateDisplayName("web-app"))
	assert.Equal(t, "Api Service", TemplateDisplayName("api-service"))
	assert.Equal(t, "Library", TemplateDisplayName("library"))
}

func TestOpsxFFCommand(t *testing.T) {
	t.Parallel()

	for _, tool := range []string{"github-copilot", "cursor", "windsurf"} {
		assert.Equal(t, "/opsx-ff initial-setup", OpsxFFCommand(tool), tool)
	}
	for _, tool := range []string{"claude-code", "opencode", "codex"} {
		assert.Equal(t, "/opsx:ff initial-setup", OpsxFFCommand(tool), tool)
	}
}

func TestComponentDisplay(t *testing.T) {
	t.Parallel()

	got, err := ComponentDisplay(false, "", "frontendStack")
	require.NoError(t, err)
	assert.Equal(t, "No", got)

	got, err = ComponentDisplay(true, "vue", "frontendStack")
	require.NoError(t, err)
	assert.Equal(t, "Yes (vue)", got)

	_, err = ComponentDisplay(true, "", "backendStack")
	require.ErrorIs(t, err, svperrors.ErrValidation)
	assert.Equal(t, "backendStack is required when the component is enabled.", err.Error())
	assert.Equal(t, "backendStack", svperrors.Normalize(err).Context["field"])
}

func TestYesNo(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Yes", YesNo(true))
	assert.Equal(t, "No", YesNo(false))
}
