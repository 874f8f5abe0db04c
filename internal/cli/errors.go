package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/itechmeat/start-vibe-project/internal/errors"
	"github.com/itechmeat/start-vibe-project/internal/logging"
	"github.com/itechmeat/start-vibe-project/internal/tui"
)

// printError reports err to the user: the error itself, then the suggested
// action. With debug on, the code, context and cause chain follow.
func printError(w io.Writer, err error, debug bool) {
	p := tui.NewPrinter(w)

	if stderrors.Is(err, errors.ErrOperationCancelled) {
		p.Cancelled()
		return
	}

	p.Error(err.Error())
	if _, action := errors.Actionable(err); action != "" {
		_, _ = fmt.Fprintf(w, "  → %s\n", action)
	}

	if !debug {
		if !errors.IsOperational(err) {
			_, _ = fmt.Fprintln(w, "  Rerun with --verbose for details.")
		}
		return
	}

	e := errors.Normalize(err)
	_, _ = fmt.Fprintf(w, "  code: %s\n", e.Code())
	for _, k := range slices.Sorted(maps.Keys(e.Context)) {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", k, logging.SafeValue(k, fmt.Sprint(e.Context[k])))
	}
	for cause := e.Cause; cause != nil; cause = stderrors.Unwrap(cause) {
		_, _ = fmt.Fprintf(w, "  caused by: %s\n", logging.Redact(cause.Error()))
	}
}
