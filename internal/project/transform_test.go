package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSimpleMem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single section",
			input: "# Agents\n## SimpleMem Instructions\nremember\n<!-- SIMPLEMEM:END -->\n## Next\n",
			want:  "# Agents\n## Next\n",
		},
		{
			name:  "every section is removed",
			input: "A\n## SimpleMem Instructions\n1\n<!-- SIMPLEMEM:END -->\nB\n## SimpleMem Instructions\n2\n<!-- SIMPLEMEM:END -->\nC",
			want:  "A\nB\nC",
		},
		{
			name:  "marker at end of file",
			input: "A\n## SimpleMem Instructions\nx<!-- SIMPLEMEM:END -->",
			want:  "A\n",
		},
		{
			name:  "no section",
			input: "# Agents\nNothing to strip.\n",
			want:  "# Agents\nNothing to strip.\n",
		},
		{
			name:  "heading without end marker is kept",
			input: "A\n## SimpleMem Instructions\nunterminated\n",
			want:  "A\n## SimpleMem Instructions\nunterminated\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := StripSimpleMem(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<!-- SIMPLEMEM:END -->")
		})
	}
}

func TestStripReliefPilot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "removes critical requirement",
			input: "# Copilot\n## 0. Critical Requirement\nuse it\n\n## 1. Mandatory Protocols\nrest\n",
			want:  "# Copilot\n## 1. Mandatory Protocols\nrest\n",
		},
		{
			name:  "only the first section",
			input: "## 0. Critical Requirement\na\n## 1. Mandatory Protocols\n## 0. Critical Requirement\nb\n## 1. Mandatory Protocols\n",
			want:  "## 1. Mandatory Protocols\n## 0. Critical Requirement\nb\n## 1. Mandatory Protocols\n",
		},
		{
			name:  "missing following heading leaves content",
			input: "## 0. Critical Requirement\nno next heading\n",
			want:  "## 0. Critical Requirement\nno next heading\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripReliefPilot(tt.input))
		})
	}
}

func TestApplyCreatorTools(t *testing.T) {
	t.Parallel()

	creator := "---\nname: creator\ntools: Read\n---\ntools: not front matter\n"
	got := ApplyCreatorTools(creator, "\n  tools: Read, relief-pilot  \n")
	assert.Equal(t, "---\nname: creator\ntools: Read, relief-pilot\n---\ntools: not front matter\n", got)

	assert.Equal(t, "no front matter\n", ApplyCreatorTools("no front matter\n", "tools: x"))
	assert.Equal(t, "---\ntools: x\n---\n", ApplyCreatorTools("---\ntools:\n---\n", "tools: x"))
}
