// Package pathsafe checks that paths derived from configuration or template
// content stay inside the directory they are meant to modify.
package pathsafe

import (
	"fmt"
	"path/filepath"
	"strings"

	svperrors "github.com/itechmeat/start-vibe-project/internal/errors"
)

// AssertWithin returns a PathSecurity error unless target lies strictly inside
// base. Both paths are made absolute and cleaned first; the check is lexical
// and does not follow symlinks.
//
// The base directory itself is rejected so that no destructive operation can
// be aimed at the root it is supposed to protect.
func AssertWithin(base, target string) error {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return svperrors.PathSecurity(fmt.Sprintf("Cannot resolve base directory: %v", err), target).
			WithContext("baseDir", base)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return svperrors.PathSecurity(fmt.Sprintf("Cannot resolve path: %v", err), target).
			WithContext("baseDir", absBase)
	}

	if absTarget == absBase {
		return svperrors.PathSecurity("Target path cannot be exactly the base directory", target).
			WithContext("baseDir", absBase)
	}

	if !strings.EqualFold(filepath.VolumeName(absBase), filepath.VolumeName(absTarget)) {
		return svperrors.PathSecurity("Cross-drive path access detected", target).
			WithContext("baseDir", absBase)
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || filepath.IsAbs(rel) {
		return svperrors.PathSecurity("Cross-drive path access detected", target).
			WithContext("baseDir", absBase).
			WithContext("relativePath", rel)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return svperrors.PathSecurity(fmt.Sprintf("Path %q is outside of %q", target, base), target).
			WithContext("baseDir", absBase).
			WithContext("relativePath", rel)
	}

	return nil
}
