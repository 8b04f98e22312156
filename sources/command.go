package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Run runs the command and returns its standard output.  If the executable is
// not on the PATH, a relative path is also looked up from the working directory
// upwards, so that helper scripts checked in to a repository can be used from
// any of its subdirectories.
func Run(ctx context.Context, args ...string) (*bytes.Buffer, error) {
	if len(args) == 0 {
		return nil, errors.New("no command given")
	}
	exe, err := exec.LookPath(args[0])
	if err != nil {
		if filepath.IsAbs(args[0]) {
			return nil, err
		}
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		for dir != filepath.Dir(dir) {
			exe = filepath.Join(dir, args[0])
			if _, err := os.Stat(exe); err == nil {
				break
			}
			dir = filepath.Dir(dir)
		}
		if dir == filepath.Dir(dir) {
			return nil, fmt.Errorf("could not find %s", args[0])
		}
	}
	buf := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, exe, args[1:]...)
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("error running %s: %w", args[0], err)
	}
	return buf, nil
}
