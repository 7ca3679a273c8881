// Copyright 2021 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tss

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ExitError is returned when the fetcher ran but exited with a non-zero status.
type ExitError struct {
	Code   int
	Output []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("fetcher exited with status %d", e.Code)
}

// CheckBinary resolves bin and verifies it is a regular file executable by its
// owner. bin is used as given when it names such a file, relative to the
// working directory if need be; otherwise it is looked up in $PATH.
// The absolute path of the fetcher is returned.
func CheckBinary(bin string) (string, error) {
	path := bin
	if err := checkExecutable(path); err != nil {
		lp, lerr := exec.LookPath(bin)
		if lerr != nil {
			return "", fmt.Errorf("fetcher %q is not executable: %v (and %v)", bin, err, lerr)
		}
		if err := checkExecutable(lp); err != nil {
			return "", err
		}
		path = lp
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve fetcher %q: %w", path, err)
	}
	return abs, nil
}

func checkExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat fetcher %q: %w", path, err)
	}
	if !fi.Mode().IsRegular() || fi.Mode().Perm()&0100 == 0 {
		return fmt.Errorf("fetcher %q is not an executable file", path)
	}
	return nil
}

// ExecRunner runs the fetcher as a subprocess. Arguments are passed as a
// vector, never through a shell.
type ExecRunner struct {
	// Binary is the path to the fetcher.
	Binary string
	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration
}

// Run runs the fetcher with args and waits for it to exit.
// The combined stdout and stderr of the process is returned.
func (r ExecRunner) Run(ctx context.Context, args []string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	// Don't wait forever on output pipes held open by orphaned children.
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("fetcher did not finish: %w", ctxErr)
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return out, &ExitError{Code: ee.ExitCode(), Output: out}
		}
		return out, fmt.Errorf("failed to run fetcher %q: %w", r.Binary, err)
	}
	return out, nil
}
