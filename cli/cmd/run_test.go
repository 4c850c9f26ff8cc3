package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestRun_Script(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, filepath.Join(dir, "calc.vac"),
		"1 + 2\n\n  x * 1 + 3 - 3\n1 +\n{}\n|-4|\n")

	ctx, stdout, stderr := newTestContext(t, nil)

	err := (&Run{Files: []string{script}, Output: OutputNative}).Run(ctx)
	if !errors.Is(err, ErrScriptFailed) {
		t.Fatalf("expected ErrScriptFailed, got %v", err)
	}

	if want := "3\n(x * 1)\n4\n"; stdout.String() != want {
		t.Errorf("expected output %q, got %q", want, stdout.String())
	}

	if !strings.HasPrefix(stderr.String(), "line 4: ") {
		t.Errorf("expected line-numbered error, got %q", stderr.String())
	}
}

func TestRun_MultipleScripts(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.vac"), "1\n")
	b := writeFile(t, filepath.Join(dir, "b.vac"), "2\n)\n")

	ctx, stdout, stderr := newTestContext(t, nil)

	err := (&Run{Files: []string{a, b}, Output: OutputNative}).Run(ctx)
	if !errors.Is(err, ErrScriptFailed) {
		t.Fatalf("expected ErrScriptFailed, got %v", err)
	}

	if stdout.String() != "1\n2\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}

	if !strings.HasPrefix(stderr.String(), b+": line 2: ") {
		t.Errorf("expected error prefixed by file name, got %q", stderr.String())
	}
}

func TestRun_Clean(t *testing.T) {
	script := writeFile(t, filepath.Join(t.TempDir(), "ok.vac"), "2 ^ 3\n")

	ctx, stdout, stderr := newTestContext(t, nil)

	if err := (&Run{Files: []string{script}, Output: OutputNative}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout.String() != "8\n" || stderr.Len() != 0 {
		t.Errorf("unexpected output %q / %q", stdout.String(), stderr.String())
	}
}

func TestRun_SearchPath(t *testing.T) {
	scripts := t.TempDir()
	extra := t.TempDir()

	writeFile(t, filepath.Join(scripts, "first.vac"), "1\n")
	writeFile(t, filepath.Join(extra, "first.vac"), "2\n")
	writeFile(t, filepath.Join(extra, "second.vac"), "3\n")

	t.Setenv(SearchPathEnv, extra)
	t.Chdir(t.TempDir())

	ctx, stdout, _ := newTestContext(t, kong.Vars{ScriptsIdentifier: scripts})

	err := (&Run{Files: []string{"first.vac", "second.vac"}, Output: OutputNative}).Run(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout.String() != "1\n3\n" {
		t.Errorf("expected scripts dir to take precedence, got %q", stdout.String())
	}
}

func TestSearchScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "found.vac"), "")

	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{name: "-", want: "-"},
		{name: "found.vac", want: filepath.Join(dir, "found.vac")},
		{name: "./rel/missing.vac", want: "./rel/missing.vac"},
		{name: "sub", wantErr: ErrScriptNotFound},
		{name: "missing.vac", wantErr: fs.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := searchScript(tt.name, []string{"", dir})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil || got != tt.want {
				t.Errorf("expected %q, got %q (%v)", tt.want, got, err)
			}
		})
	}
}
