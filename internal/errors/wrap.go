package errors

import "fmt"

// Wrap adds context to err at a package boundary and returns nil for a nil err.
// The wrapped chain still answers errors.Is for the sentinel kinds:
//
//	if err := loader.LoadTemplate(p); err != nil {
//	    return errors.Wrap(err, "load creator agent")
//	}
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
