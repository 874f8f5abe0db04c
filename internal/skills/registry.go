// Package skills selects skill bundles from the packaged registry for a
// project, installs them with the skills-installer CLI and fingerprints the
// installed files.
package skills

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itechmeat/start-vibe-project/internal/constants"
	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// Skill is a single installable skill.
type Skill struct {
	Name string
	Tags []string
}

// Source is a repository of skills installed with one command.
type Source struct {
	ID     string
	Label  string
	Skills []Skill
}

// Registry is the packaged skill registry.
type Registry struct {
	Sources []Source
	// PriorityRepos are listed in INIT.md for the agent to browse.
	PriorityRepos []string
}

// DataLoader reads packaged data files. Implemented by assets.Loader.
type DataLoader interface {
	LoadData(logicalPath string) (string, error)
}

type rawRegistry struct {
	StartSkills   json.RawMessage `json:"start_skills"`
	PriorityRepos []string        `json:"priority_repos"`
}

type rawSource struct {
	ID     *string    `json:"id"`
	Label  string     `json:"label"`
	Skills []rawSkill `json:"skills"`
}

type rawSkill struct {
	Name json.RawMessage `json:"name"`
	Tags json.RawMessage `json:"tags"`
}

// LoadRegistry reads and parses the registry through loader. A missing or
// malformed registry is a packaging defect and is reported as Internal.
func LoadRegistry(loader DataLoader, logger zerolog.Logger) (*Registry, error) {
	content, err := loader.LoadData(constants.SkillRegistryFile)
	if err != nil {
		return nil, svperrors.Internal("Failed to read skill registry: "+err.Error(), err)
	}
	return ParseRegistry([]byte(content), logger)
}

// ParseRegistry decodes a registry document. Skills with a non-array tags
// field or a blank name are skipped with a warning.
func ParseRegistry(data []byte, logger zerolog.Logger) (*Registry, error) {
	var raw rawRegistry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, svperrors.Internal("Failed to load skill registry: "+err.Error(), err)
	}

	trimmed := bytes.TrimSpace(raw.StartSkills)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, invalidRegistry("start_skills must be an array")
	}

	var sources []rawSource
	if err := json.Unmarshal(trimmed, &sources); err != nil {
		return nil, invalidRegistry(err.Error())
	}

	reg := &Registry{
		Sources:       make([]Source, 0, len(sources)),
		PriorityRepos: raw.PriorityRepos,
	}
	for i, src := range sources {
		if src.ID == nil || *src.ID == "" {
			return nil, invalidRegistry(fmt.Sprintf("start_skills[%d].id is required", i))
		}
		label := src.Label
		if label == "" {
			label = *src.ID
		}
		reg.Sources = append(reg.Sources, Source{
			ID:     *src.ID,
			Label:  label,
			Skills: decodeSkills(label, src.Skills, logger),
		})
	}
	return reg, nil
}

func decodeSkills(label string, raw []rawSkill, logger zerolog.Logger) []Skill {
	out := make([]Skill, 0, len(raw))
	for _, rs := range raw {
		var name string
		if len(rs.Name) > 0 && json.Unmarshal(rs.Name, &name) != nil {
			logger.Warn().Str("source", label).Msg("Skill name must be a string")
			continue
		}

		var tags []string
		if len(rs.Tags) == 0 || json.Unmarshal(rs.Tags, &tags) != nil || tags == nil {
			logger.Warn().Msgf("Skill tags must be an array for %s/%s", label, name)
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			logger.Warn().Msgf("Skill name cannot be empty for %s", label)
			continue
		}

		out = append(out, Skill{Name: name, Tags: tags})
	}
	return out
}

func invalidRegistry(detail string) error {
	return svperrors.Internal("Skill registry validation failed: "+detail, nil)
}
