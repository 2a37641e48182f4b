package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTaskIDRequired indicates no task ID was provided.
var ErrTaskIDRequired = errors.New("task ID required")

// ParseTaskID returns the single task ID in args.
//
// Parsing rules:
// 1. No args, or a blank first arg → ErrTaskIDRequired
// 2. More than one arg → error: unexpected argument: <arg>
// 3. IDs containing whitespace or "/" → error: invalid task ID: <id>
func ParseTaskID(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrTaskIDRequired
	}

	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", ErrTaskIDRequired
	}
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected argument: %s", args[1])
	}
	if strings.ContainsAny(id, " \t\r\n/") {
		return "", fmt.Errorf("invalid task ID: %s", id)
	}
	return id, nil
}

// parseTaskIDOrFail parses the task ID and prints the error in CLI form.
func parseTaskIDOrFail(args []string, errOut io.Writer) (string, bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", false
	}
	return id, true
}
