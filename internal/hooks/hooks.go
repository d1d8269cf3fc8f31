// Package hooks runs user scripts after feed changes.
//
// Scripts live in {hooks_dir}/{point}/ and run in name order when they are
// executable. They receive details of the change in environment variables.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/practice-alerts/internal/config"
	"github.com/cristianoliveira/practice-alerts/internal/logging"
)

// Point is a hook point name, also the sub-directory holding its scripts.
type Point string

const (
	PostAdd    Point = "post-add"
	PostRemove Point = "post-remove"
	PostClear  Point = "post-clear"
)

// FailureMode controls what a failing script does.
type FailureMode string

const (
	// FailureIgnore drops failures silently.
	FailureIgnore FailureMode = "ignore"
	// FailureWarn logs failures and keeps going.
	FailureWarn FailureMode = "warn"
	// FailureAbort stops the remaining scripts of the point and returns the error.
	FailureAbort FailureMode = "abort"
)

// Options configures a Runner.
type Options struct {
	Dir          string
	Enabled      bool
	FailureMode  FailureMode
	Async        bool
	AsyncTimeout time.Duration
	// SyncTimeout bounds each synchronous script; they run inside a dispatch.
	SyncTimeout time.Duration
	MaxAsync    int
	// Disabled lists points that never run even when hooks are enabled.
	Disabled map[Point]bool
	Logger   logging.Logger
}

// OptionsFromConfig reads hook settings from the global configuration.
func OptionsFromConfig() Options {
	opts := Options{
		Dir:          config.Get("hooks_dir", ""),
		Enabled:      config.GetBool("hooks_enabled", true),
		FailureMode:  FailureMode(config.Get("hooks_failure_mode", string(FailureWarn))),
		Async:        config.GetBool("hooks_async", false),
		AsyncTimeout: time.Duration(config.GetInt("hooks_async_timeout", 30)) * time.Second,
		SyncTimeout:  time.Duration(config.GetInt("hooks_sync_timeout", 10)) * time.Second,
		MaxAsync:     config.GetInt("max_hooks", 10),
		Disabled:     make(map[Point]bool),
	}
	for _, p := range []Point{PostAdd, PostRemove, PostClear} {
		key := "hooks_enabled_" + strings.ReplaceAll(string(p), "-", "_")
		if !config.GetBool(key, true) {
			opts.Disabled[p] = true
		}
	}
	return opts
}

// Runner executes hook scripts. It is safe for concurrent use.
type Runner struct {
	opts   Options
	logger logging.Logger
	binary string

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	if opts.FailureMode == "" {
		opts.FailureMode = FailureWarn
	}
	if opts.AsyncTimeout <= 0 {
		opts.AsyncTimeout = 30 * time.Second
	}
	if opts.SyncTimeout <= 0 {
		opts.SyncTimeout = 10 * time.Second
	}
	if opts.MaxAsync <= 0 {
		opts.MaxAsync = 10
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobal()
	}
	binary, _ := os.Executable()
	return &Runner{opts: opts, logger: logger.With("component", "hooks"), binary: binary}
}

type script struct {
	path string
	name string
}

// scripts returns the executable scripts of point sorted by name.
func (r *Runner) scripts(point Point) []script {
	dir := filepath.Join(r.opts.Dir, string(point))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		out = append(out, script{path: filepath.Join(dir, e.Name()), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Run executes the scripts of point with env added to the process environment.
// Only abort mode returns an error, for the first failing synchronous script.
func (r *Runner) Run(ctx context.Context, point Point, env map[string]string) error {
	if !r.opts.Enabled || r.opts.Dir == "" || r.opts.Disabled[point] {
		return nil
	}
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	environ := r.environ(point, env)
	r.logger.Debug("running hooks", "point", string(point), "scripts", len(scripts))

	for _, s := range scripts {
		if r.opts.Async {
			if !r.reserve() {
				r.logger.Warn("too many async hooks pending, skipping", "max", r.opts.MaxAsync, "script", s.name)
				continue
			}
			go r.runAsync(s, environ)
			continue
		}
		if err := r.runBounded(ctx, s, environ); err != nil {
			switch r.opts.FailureMode {
			case FailureAbort:
				return err
			case FailureWarn:
				r.logger.Warn("hook failed", "point", string(point), "script", s.name, "error", err)
			}
		}
	}
	return nil
}

func (r *Runner) environ(point Point, env map[string]string) []string {
	environ := os.Environ()
	environ = append(environ,
		"HOOK_POINT="+string(point),
		"HOOK_TIMESTAMP="+time.Now().UTC().Format(time.RFC3339),
		config.EnvPrefix+"HOOKS_FAILURE_MODE="+string(r.opts.FailureMode),
	)
	if r.binary != "" {
		environ = append(environ, config.EnvPrefix+"BINARY="+r.binary)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		environ = append(environ, k+"="+env[k])
	}
	return environ
}

// runBounded runs s synchronously under SyncTimeout.
func (r *Runner) runBounded(ctx context.Context, s script, environ []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.opts.SyncTimeout)
	defer cancel()
	err := r.runSync(ctx, s, environ)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook %s timed out after %s: %w", s.name, r.opts.SyncTimeout, context.DeadlineExceeded)
	}
	return err
}

func (r *Runner) runSync(ctx context.Context, s script, environ []string) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = environ
	// Children of a killed script may keep the output pipe open.
	cmd.WaitDelay = 500 * time.Millisecond
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	if out.Len() > 0 {
		r.logger.Debug("hook output", "script", s.name, "output", strings.TrimSpace(out.String()))
	}
	if err != nil {
		return fmt.Errorf("hook %s failed: %w: %s", s.name, err, strings.TrimSpace(out.String()))
	}
	r.logger.Debug("hook completed", "script", s.name, "duration", time.Since(start).String())
	return nil
}

func (r *Runner) reserve() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending >= r.opts.MaxAsync {
		return false
	}
	r.pending++
	r.wg.Add(1)
	return true
}

func (r *Runner) release() {
	r.mu.Lock()
	r.pending--
	r.mu.Unlock()
	r.wg.Done()
}

// runAsync is detached from the dispatch context; only the timeout bounds it.
func (r *Runner) runAsync(s script, environ []string) {
	defer r.release()
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("async hook panicked", "script", s.name, "panic", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.AsyncTimeout)
	defer cancel()
	err := r.runSync(ctx, s, environ)
	if ctx.Err() == context.DeadlineExceeded {
		r.logger.Warn("async hook timed out", "script", s.name, "timeout", r.opts.AsyncTimeout.String())
		return
	}
	if err != nil && r.opts.FailureMode != FailureIgnore {
		r.logger.Warn("async hook failed", "script", s.name, "error", err)
	}
}

// Pending returns the number of async hooks still running.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Wait blocks until every async hook has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
