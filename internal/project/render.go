package project

import (
	"regexp"
	"strings"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// placeholderPattern matches {{name}} placeholders.
var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Render replaces every {{key}} in tmpl with values[key] in a single pass.
// Any placeholder left in the output afterwards is an error naming the
// unresolved keys; templatePath identifies the template in that error.
func Render(tmpl, templatePath string, values map[string]string) (string, error) {
	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := values[match[2:len(match)-2]]; ok {
			return val
		}
		return match
	})

	if unresolved := Unresolved(out); len(unresolved) > 0 {
		return "", svperrors.TemplateLoad(
			"Template placeholders not resolved: "+strings.Join(unresolved, ", "),
			templatePath, nil,
		).WithContext("unresolved", unresolved)
	}
	return out, nil
}

// Unresolved returns the distinct placeholder names in s, in order of first
// appearance.
func Unresolved(s string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
