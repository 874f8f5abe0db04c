package skills

import (
	"sort"

	"github.com/itechmeat/start-vibe-project/internal/domain"
)

// Capability tags.
const (
	TagCommon   = "common"
	TagFrontend = "frontend"
	TagMobile   = "mobile"
	TagDesign   = "design"
	TagBackend  = "backend"
	TagDatabase = "database"
	TagAuth     = "auth"
)

//nolint:gochecknoglobals // read-only lookup tables
var (
	frontendStackTags = map[string][]string{
		"react-vite": {"react"},
		"vue":        {"vue"},
		"nextjs":     {"nextjs"},
		"nuxtjs":     {"nuxtjs"},
	}
	backendStackTags = map[string][]string{
		"fastapi": {"fastapi"},
		"django":  {"django"},
		"flask":   {"flask"},
		"express": {"express"},
		"nestjs":  {"nestjs"},
	}
	databaseStackTags = map[string][]string{
		"postgresql": {"postgresql"},
		"mysql":      {"mysql"},
		"mongodb":    {"mongodb"},
		"turso":      {"turso"},
	}
)

// TagSet is a set of capability tags.
type TagSet map[string]struct{}

// Has reports whether tag is in the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (s TagSet) addStack(stack string, table map[string][]string) {
	for _, tag := range table[stack] {
		s[tag] = struct{}{}
	}
}

// SelectedTags returns the tags a project's skills must match. Unknown stack
// identifiers add nothing.
func SelectedTags(cfg domain.ProjectConfig) TagSet {
	tags := TagSet{TagCommon: {}}

	if cfg.Components.Frontend {
		if cfg.IsMobile() {
			tags[TagMobile] = struct{}{}
		} else {
			tags[TagFrontend] = struct{}{}
		}
		tags[TagDesign] = struct{}{}
		tags.addStack(cfg.FrontendStack, frontendStackTags)
	}
	if cfg.Components.Backend {
		tags[TagBackend] = struct{}{}
		tags.addStack(cfg.BackendStack, backendStackTags)
	}
	if cfg.Components.Database {
		tags[TagDatabase] = struct{}{}
		tags.addStack(cfg.DatabaseStack, databaseStackTags)
	}
	if cfg.Components.Auth {
		tags[TagAuth] = struct{}{}
	}
	return tags
}

// SourcePlan is the set of skills to install from one source.
type SourcePlan struct {
	ID     string
	Label  string
	Skills []string
}

// BuildPlan keeps, per source in registry order, the skills whose tags
// intersect tags. Duplicate names keep their first position. Sources with no
// matching skill are left out.
func BuildPlan(reg *Registry, tags TagSet) []SourcePlan {
	var plan []SourcePlan
	for _, src := range reg.Sources {
		seen := make(map[string]struct{}, len(src.Skills))
		var names []string
		for _, sk := range src.Skills {
			if _, dup := seen[sk.Name]; dup || !matches(sk.Tags, tags) {
				continue
			}
			seen[sk.Name] = struct{}{}
			names = append(names, sk.Name)
		}
		if len(names) > 0 {
			plan = append(plan, SourcePlan{ID: src.ID, Label: src.Label, Skills: names})
		}
	}
	return plan
}

func matches(skillTags []string, selected TagSet) bool {
	for _, tag := range skillTags {
		if selected.Has(tag) {
			return true
		}
	}
	return false
}

// Args returns the skills-installer arguments for p.
func (p SourcePlan) Args(aiTool string) []string {
	args := make([]string, 0, 6+2*len(p.Skills))
	args = append(args, "skills", "add", p.ID, "-a", aiTool)
	for _, name := range p.Skills {
		args = append(args, "-s", name)
	}
	return append(args, "-y")
}
