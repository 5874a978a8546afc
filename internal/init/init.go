// Package initcmd writes a commented starter config file for tomato.
package initcmd

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	udiff "github.com/aymanbagabas/go-udiff"

	"github.com/npratt/tomato/internal/config"
)

//go:embed templates/config.yaml
var templates embed.FS

// ErrChanged is returned when the target exists with different content and
// Force is not set.
var ErrChanged = errors.New("config file has changes (use --force to overwrite)")

// Options configures the init command behavior.
type Options struct {
	DryRun bool
	Force  bool
	Global bool
	Writer io.Writer // Output writer (defaults to os.Stdout)
}

// Result contains the outcome of the init operation.
type Result struct {
	Path        string
	Created     bool
	Overwritten bool
	Unchanged   bool
	Diff        string // Unified diff against the existing file, if it differs
}

// Template returns the starter config file content.
func Template() string {
	data, err := templates.ReadFile("templates/config.yaml")
	if err != nil {
		panic("embedded config template missing: " + err.Error())
	}
	return string(data)
}

// Run executes the init command with the given options.
func Run(opts Options) (*Result, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	path, err := TargetPath(opts.Global)
	if err != nil {
		return nil, err
	}

	content := Template()
	result := &Result{Path: path}

	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if exists {
		if string(existing) == content {
			result.Unchanged = true
			_, _ = fmt.Fprintf(opts.Writer, "Already up to date: %s\n", path)
			return result, nil
		}
		result.Diff = udiff.Unified("existing", "new", string(existing), content)
	}

	if opts.DryRun {
		_, _ = fmt.Fprintln(opts.Writer, "DRY RUN - No changes will be made")
		_, _ = fmt.Fprintln(opts.Writer)
		if exists {
			_, _ = fmt.Fprintf(opts.Writer, "Would overwrite (has changes): %s\n\n%s\n", path, result.Diff)
		} else {
			_, _ = fmt.Fprintf(opts.Writer, "Would create: %s\n\n%s", path, content)
		}
		return result, nil
	}

	if exists && !opts.Force {
		_, _ = fmt.Fprintf(opts.Writer, "%s has changes:\n\n%s\n", path, result.Diff)
		_, _ = fmt.Fprintln(opts.Writer, "Use --force to overwrite.")
		return result, ErrChanged
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	if exists {
		result.Overwritten = true
		_, _ = fmt.Fprintf(opts.Writer, "Overwrote %s\n", path)
	} else {
		result.Created = true
		_, _ = fmt.Fprintf(opts.Writer, "Created %s\n", path)
	}
	return result, nil
}

// TargetPath returns where init writes the config: the project file, or the
// per-user file when global is set.
func TargetPath(global bool) (string, error) {
	if global {
		return config.GlobalPath()
	}
	return config.ProjectPath(), nil
}
