package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itechmeat/start-vibe-project/internal/agent"
)

func TestListAgents_MarksDetected(t *testing.T) {
	t.Parallel()

	home := "/home/dev"
	present := map[string]bool{filepath.Join(home, ".claude"): true}

	rows := listAgents(agent.Default(), home, "/work", func(p string) bool { return present[p] })
	require.Len(t, rows, len(agent.Default().All()))

	for _, r := range rows {
		assert.Equal(t, r.Name == "claude-code", r.Detected, r.Name)
	}
}

func TestWriteAgentsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeAgentsTable(&buf, []agentRow{
		{Name: "claude-code", Display: "Claude Code", SkillsDir: ".claude/skills", AgentsDir: ".claude/agents", Detected: true},
		{Name: "codex", Display: "Codex", SkillsDir: ".codex/skills", AgentsDir: ".codex/agents"},
	}))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "(detected)")
	assert.Contains(t, out, ".codex/skills")
}

func TestWriteAgentsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeAgentsJSON(&buf, []agentRow{{Name: "codex", Display: "Codex"}}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "codex", decoded[0]["name"])
	assert.Equal(t, false, decoded[0]["detected"])
}
