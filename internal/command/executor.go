// Package command provides a command system for the qr engine
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/internal/session"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// Executor executes commands against a session
type Executor struct {
	session *session.Session
	format  export.Format
}

// NewExecutor creates a new command executor. format is used by export
// when no format is given.
func NewExecutor(s *session.Session, format export.Format) *Executor {
	if format == "" {
		format = export.FormatPNG
	}
	return &Executor{
		session: s,
		format:  format,
	}
}

// Result represents the result of executing a command
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`

	// Refresh is set when the command changed what the preview shows
	Refresh bool `json:"-"`
}

// Execute executes a command string and returns a result
func (e *Executor) Execute(ctx context.Context, cmdStr string) *Result {
	parts, err := parseCommand(cmdStr)
	if err != nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("invalid command: %v", err),
		}
	}
	if len(parts) == 0 {
		return &Result{
			Success: false,
			Error:   "empty command",
		}
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "kind":
		return e.handleKind(args)
	case "fields":
		return e.handleFields(args)
	case "set":
		return e.handleSet(args)
	case "payload":
		return e.handlePayload(args)
	case "style":
		return e.handleStyle(args)
	case "logo":
		return e.handleLogo(args)
	case "export":
		return e.handleExport(ctx, args)
	case "copy":
		return e.handleCopy(ctx, args)
	case "reset":
		return e.handleReset(args)
	case "help":
		return e.handleHelp(args)
	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown command: %s. Type 'help' for available commands", command),
		}
	}
}

// parseCommand splits a command line the way a POSIX shell would
func parseCommand(cmdStr string) ([]string, error) {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return []string{}, nil
	}
	return shlex.Split(cmdStr, true)
}

func failure(err error) *Result {
	return &Result{Success: false, Error: errorText(err)}
}

// errorText returns the message a user should see for err
func errorText(err error) string {
	var re *qrformat.RenderError
	switch {
	case qrformat.IsValidation(err):
		return qrformat.UserMessage(err)
	case errors.As(err, &re):
		return qrformat.RenderMessage
	default:
		return err.Error()
	}
}
