// Copyright 2025 Poiesic Systems
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


package router

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

const defaultRepairTimeout = 30 * time.Second

// RepairRunner invokes the external repair executable that corrects
// known textual defects in an export before parsing. The executable
// receives the file path as its single argument and is expected to
// rewrite the file in place and exit zero.
//
// Repair is strictly best-effort: a non-zero exit, a timeout, or a
// failure to start is logged and parsing proceeds on the possibly
// unrepaired content.
type RepairRunner struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
}

// NewRepairRunner creates a repair runner for the given executable.
// A non-positive timeout falls back to 30 seconds.
func NewRepairRunner(command string, timeout time.Duration, logger *slog.Logger) *RepairRunner {
	if timeout <= 0 {
		timeout = defaultRepairTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RepairRunner{command: command, timeout: timeout, logger: logger}
}

// Repair runs the executable against path and returns the file's
// content afterwards. When the run or the re-read fails, the original
// content is returned unchanged.
func (r *RepairRunner) Repair(ctx context.Context, path string, original []byte) []byte {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.command, path)
	if output, err := cmd.CombinedOutput(); err != nil {
		r.logger.Warn("repair pass failed, continuing with original content",
			"command", r.command, "path", path, "err", err, "output", string(output))
		return original
	}

	repaired, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("cannot re-read repaired file, continuing with original content",
			"path", path, "err", err)
		return original
	}
	return repaired
}
