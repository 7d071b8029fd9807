package converter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go-mutwo/debug"
)

// Runner runs an external program. Backends that call command line tools
// take one so tests can record the command instead of running it.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the command and returns its combined output on failure.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	debug.Log("exec", "%s %s", name, strings.Join(args, " "))
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(out.String()))
	}
	return nil
}
