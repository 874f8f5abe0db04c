package errors

import "errors"

// ErrorInfo holds a user-facing message and a suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested next step (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is ordered: more specific kinds come first because a
// single error may unwrap to several kinds.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrOperationCancelled,
		info: ErrorInfo{
			Message: "Operation cancelled.",
		},
	},
	{
		err: ErrUnknownAgent,
		info: ErrorInfo{
			Message: "The selected AI tool is not supported.",
			Action:  "Run 'start-vibe-project agents' to list supported tools.",
		},
	},
	{
		err: ErrConfigNotFound,
		info: ErrorInfo{
			Message: "Configuration file not found.",
			Action:  "Check the --config path or remove the flag to use defaults.",
		},
	},
	{
		err: ErrValidation,
		info: ErrorInfo{
			Message: "The project configuration is invalid.",
			Action:  "Fix the reported field and run the command again.",
		},
	},
	{
		err: ErrLockHeld,
		info: ErrorInfo{
			Message: "Another start-vibe-project run is creating this project.",
			Action:  "Wait for the other run to finish, or remove the stale lock in .start-vibe-project/.",
		},
	},
	{
		err: ErrPathSecurity,
		info: ErrorInfo{
			Message: "Refused to touch a path outside the project directory.",
			Action:  "Check the agent directory settings and template paths for '..' segments.",
		},
	},
	{
		err: ErrSkillInstall,
		info: ErrorInfo{
			Message: "Some skills could not be installed.",
			Action:  "Run the printed 'npx skills add' commands manually inside the project.",
		},
	},
	{
		err: ErrCircuitOpen,
		info: ErrorInfo{
			Message: "Skill installation stopped after repeated failures.",
			Action:  "Check your network connection and npm registry access, then retry.",
		},
	},
	{
		err: ErrRetryExhausted,
		info: ErrorInfo{
			Message: "The operation kept failing after several attempts.",
			Action:  "Check your network connection and retry.",
		},
	},
	{
		err: ErrCommandExecution,
		info: ErrorInfo{
			Message: "An external command failed.",
			Action:  "Run 'start-vibe-project doctor' to check node, npm, npx and git.",
		},
	},
	{
		err: ErrTemplateLoad,
		info: ErrorInfo{
			Message: "A packaged template could not be loaded.",
			Action:  "Reinstall start-vibe-project or set assets.root to the asset directory.",
		},
	},
	{
		err: ErrFileSystem,
		info: ErrorInfo{
			Message: "A file or directory could not be written.",
			Action:  "Check permissions and free space in the target directory.",
		},
	},
	{
		err: ErrInternal,
		info: ErrorInfo{
			Message: "Project creation failed unexpectedly.",
			Action:  "Re-run with --verbose and report the log if it persists.",
		},
	},
}

func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for err. Unrecognized errors
// return their original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly message along with a suggested action.
// The action is empty when there is nothing useful to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
