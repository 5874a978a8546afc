package initcmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/npratt/tomato/internal/config"
	"github.com/npratt/tomato/internal/testutil"
)

// isolate runs the test from an empty project directory with its own
// XDG_CONFIG_HOME.
func isolate(t *testing.T) (project, xdg string) {
	t.Helper()
	root := t.TempDir()
	project = filepath.Join(root, "project")
	xdg = filepath.Join(root, "xdg")
	if err := os.MkdirAll(project, 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", xdg)
	testutil.Chdir(t, project)
	return project, xdg
}

func TestTemplate_LoadsAsDefaults(t *testing.T) {
	isolate(t)
	testutil.WriteFile(t, ".", filepath.Join(config.ProjectConfigDir, config.ProjectConfigFile), Template())

	cfg, err := config.LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !reflect.DeepEqual(cfg, config.Default()) {
		t.Errorf("template config = %+v, want defaults %+v", cfg, config.Default())
	}
}

func TestTargetPath(t *testing.T) {
	_, xdg := isolate(t)

	got, err := TargetPath(false)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(".tomato", "config.yaml"); got != want {
		t.Errorf("project path = %q, want %q", got, want)
	}

	got, err = TargetPath(true)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(xdg, "tomato", "config.yaml"); got != want {
		t.Errorf("global path = %q, want %q", got, want)
	}
}

func TestRun_CreatesProjectConfig(t *testing.T) {
	isolate(t)
	var out bytes.Buffer

	result, err := Run(Options{Writer: &out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Created {
		t.Errorf("Created = false, want true")
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("read created file: %v", err)
	}
	if string(data) != Template() {
		t.Errorf("written content differs from template")
	}
	if !strings.Contains(out.String(), "Created") {
		t.Errorf("output = %q, want Created message", out.String())
	}
}

func TestRun_Global(t *testing.T) {
	_, xdg := isolate(t)

	result, err := Run(Options{Global: true, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(xdg, "tomato", "config.yaml")
	if result.Path != want {
		t.Errorf("Path = %q, want %q", result.Path, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("global config not written: %v", err)
	}
	if _, err := os.Stat(".tomato"); !os.IsNotExist(err) {
		t.Errorf("project directory should not exist, stat err = %v", err)
	}
}

func TestRun_Unchanged(t *testing.T) {
	isolate(t)
	if _, err := Run(Options{Writer: &bytes.Buffer{}}); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	result, err := Run(Options{Writer: &out})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if !result.Unchanged {
		t.Errorf("Unchanged = false, want true")
	}
	if !strings.Contains(out.String(), "Already up to date") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Run("new file", func(t *testing.T) {
		isolate(t)
		var out bytes.Buffer

		result, err := Run(Options{DryRun: true, Writer: &out})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Created {
			t.Errorf("dry run reported Created")
		}
		if _, err := os.Stat(result.Path); !os.IsNotExist(err) {
			t.Errorf("dry run wrote %s", result.Path)
		}
		for _, want := range []string{"DRY RUN", "Would create", "durations:"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})

	t.Run("changed file", func(t *testing.T) {
		isolate(t)
		path := testutil.WriteFile(t, ".", filepath.Join(".tomato", "config.yaml"), "durations:\n  work: 50\n")
		var out bytes.Buffer

		result, err := Run(Options{DryRun: true, Writer: &out})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Diff == "" {
			t.Errorf("Diff is empty")
		}
		if !strings.Contains(out.String(), "Would overwrite") {
			t.Errorf("output = %q", out.String())
		}
		data, _ := os.ReadFile(path)
		if string(data) != "durations:\n  work: 50\n" {
			t.Errorf("dry run modified the existing file")
		}
	})
}

func TestRun_ChangedWithoutForce(t *testing.T) {
	isolate(t)
	existing := "durations:\n  work: 50\n"
	path := testutil.WriteFile(t, ".", filepath.Join(".tomato", "config.yaml"), existing)
	var out bytes.Buffer

	result, err := Run(Options{Writer: &out})
	if !errors.Is(err, ErrChanged) {
		t.Fatalf("err = %v, want ErrChanged", err)
	}
	if !strings.Contains(result.Diff, "-  work: 50") {
		t.Errorf("diff should remove the existing line:\n%s", result.Diff)
	}
	if !strings.Contains(out.String(), "Use --force to overwrite.") {
		t.Errorf("output = %q", out.String())
	}

	data, _ := os.ReadFile(path)
	if string(data) != existing {
		t.Errorf("file was modified without --force")
	}
}

func TestRun_Force(t *testing.T) {
	isolate(t)
	path := testutil.WriteFile(t, ".", filepath.Join(".tomato", "config.yaml"), "durations:\n  work: 50\n")

	result, err := Run(Options{Force: true, Writer: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Overwritten {
		t.Errorf("Overwritten = false, want true")
	}
	data, _ := os.ReadFile(path)
	if string(data) != Template() {
		t.Errorf("file was not replaced with the template")
	}
}
