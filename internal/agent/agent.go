// Package agent holds the table of supported coding agents and where each one
// keeps its skills and agent definitions.
package agent

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

//go:embed agents.yaml
var agentsYAML []byte

// Config describes one coding agent.
type Config struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	// SkillsDir is relative to the project root.
	SkillsDir string `yaml:"skills_dir"`
	// AgentsDir is relative to the project root.
	AgentsDir string `yaml:"agents_dir"`
	// GlobalSkillsDir is relative to the user's home directory.
	GlobalSkillsDir string `yaml:"global_skills_dir"`

	DetectHome    []string `yaml:"detect_home"`
	DetectProject []string `yaml:"detect_project"`
}

// Registry is an ordered, read-only set of agents.
type Registry struct {
	agents []Config
	byName map[string]int
}

// Parse decodes a registry document.
func Parse(data []byte) (*Registry, error) {
	var doc struct {
		Agents []Config `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode agent registry: %w", err)
	}

	r := &Registry{agents: doc.Agents, byName: make(map[string]int, len(doc.Agents))}
	for i, a := range doc.Agents {
		if a.Name == "" || a.SkillsDir == "" || a.AgentsDir == "" {
			return nil, fmt.Errorf("agent registry entry %d: name, skills_dir and agents_dir are required", i)
		}
		if _, dup := r.byName[a.Name]; dup {
			return nil, fmt.Errorf("agent registry: duplicate agent %q", a.Name)
		}
		r.byName[a.Name] = i
	}
	return r, nil
}

//nolint:gochecknoglobals // parsed once from the embedded table
var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Parse(agentsYAML)
	if err != nil {
		panic(err)
	}
	return r
})

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry()
}

// All returns every agent in table order.
func (r *Registry) All() []Config {
	out := make([]Config, len(r.agents))
	copy(out, r.agents)
	return out
}

// Names returns the agent identifiers sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for _, a := range r.agents {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the agent named name.
func (r *Registry) Lookup(name string) (Config, error) {
	i, ok := r.byName[name]
	if !ok {
		return Config{}, svperrors.NewError(svperrors.ErrUnknownAgent, fmt.Sprintf("Unknown AI tool: %s", name)).
			WithContext("aiTool", name)
	}
	return r.agents[i], nil
}

// Detected returns the agents that appear to be installed, judged by marker
// directories under home or cwd. exists is the probe, typically the
// filesystem port's Exists.
func (r *Registry) Detected(home, cwd string, exists func(path string) bool) []Config {
	var out []Config
	for _, a := range r.agents {
		if a.installed(home, cwd, exists) {
			out = append(out, a)
		}
	}
	return out
}

func (a Config) installed(home, cwd string, exists func(string) bool) bool {
	if cwd != "" {
		for _, rel := range a.DetectProject {
			if exists(filepath.Join(cwd, rel)) {
				return true
			}
		}
	}
	if home == "" {
		return false
	}
	for _, rel := range a.DetectHome {
		if exists(filepath.Join(home, rel)) {
			return true
		}
	}
	return false
}

// GlobalSkillsPath returns the absolute global skills directory for home.
func (a Config) GlobalSkillsPath(home string) string {
	return filepath.Join(home, a.GlobalSkillsDir)
}
