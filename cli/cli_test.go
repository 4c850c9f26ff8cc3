package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ardnew/vac/cli/cmd"
	"github.com/ardnew/vac/log"
	"github.com/ardnew/vac/pkg"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", pkg.Name)
	if err != nil {
		panic(err)
	}

	os.Setenv("XDG_CONFIG_HOME", dir)
	os.Setenv("XDG_CACHE_HOME", dir)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

// exitCode is the panic value raised by [runTest]'s exit function.
type exitCode int

// runTest runs the CLI with args and returns its output. A call to the exit
// function stops the run and is reported through code.
func runTest(t *testing.T, args ...string) (stdout, stderr string, code int, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	code = -1

	func() {
		defer func() {
			if r := recover(); r != nil {
				c, ok := r.(exitCode)
				if !ok {
					panic(r)
				}

				code = int(c)
			}
		}()

		err = run(t.Context(), func(c int) { panic(exitCode(c)) },
			&outBuf, &errBuf, args...)
	}()

	return outBuf.String(), errBuf.String(), code, err
}

// withConfig writes the YAML configuration file for the duration of the test.
func withConfig(t *testing.T, content string) string {
	t.Helper()

	path := configPath(baseConfig + ".yaml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { os.Remove(path) })

	return path
}

func TestRun_Version(t *testing.T) {
	stdout, _, code, err := runTest(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if code != 0 || strings.TrimSpace(stdout) != pkg.Version {
		t.Errorf("expected version %q and exit 0, got %q (exit %d)",
			pkg.Version, stdout, code)
	}
}

func TestRun_Eval(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"eval", "2", "*", "3"}, "6\n"},
		{[]string{"eval", "x - 1 + 1"}, "x\n"},
		{[]string{"fmt", "1 + 2 * 3"}, "(1 + (2 * 3))\n"},
		{[]string{"fmt", "native", "2 ^ 3"}, "(2 ^ 3)\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			stdout, _, _, err := runTest(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if stdout != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stdout)
			}
		})
	}
}

func TestRun_ParseError(t *testing.T) {
	_, _, _, err := runTest(t, "eval", "--bogus", "1")
	if err == nil {
		t.Error("expected unknown flag error")
	}
}

func TestRun_ConfigFile(t *testing.T) {
	withConfig(t, "output: json\n")

	stdout, _, _, err := runTest(t, "eval", "1 + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout, `"result": "value"`) {
		t.Errorf("expected JSON output from config, got %q", stdout)
	}

	stdout, _, _, err = runTest(t, "eval", "--output=native", "1 + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout != "2\n" {
		t.Errorf("expected flag to override config, got %q", stdout)
	}
}

func TestRun_Init(t *testing.T) {
	path := configPath(baseConfig + ".yaml")
	t.Cleanup(func() { os.Remove(path) })

	if _, _, _, err := runTest(t, "--log-level=warn", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "log-level: warn") {
		t.Errorf("expected log level in config, got:\n%s", data)
	}

	_, _, _, err = runTest(t, "init")
	if !errors.Is(err, cmd.ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}

	if _, _, _, err = runTest(t, "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	tests := []struct {
		name   string
		args   []string
		check  func(logConfig) bool
		expect string
	}{
		{
			"assigned level",
			[]string{"--log-level=debug"},
			func(f logConfig) bool { return f.Level == "debug" },
			"level debug",
		},
		{
			"separate format",
			[]string{"eval", "--log-format", "json", "1"},
			func(f logConfig) bool { return f.Format == "json" },
			"format json",
		},
		{
			"negated pretty",
			[]string{"--no-log-pretty"},
			func(f logConfig) bool { return !f.Pretty },
			"pretty disabled",
		},
		{
			"assigned caller",
			[]string{"--log-caller=true"},
			func(f logConfig) bool { return f.Caller },
			"caller enabled",
		},
		{
			"invalid bool",
			[]string{"--log-caller=maybe"},
			func(f logConfig) bool { return !f.Caller },
			"caller unchanged",
		},
		{
			"time layout",
			[]string{"--log-time-layout", "Kitchen"},
			func(f logConfig) bool { return f.TimeLayout == "Kitchen" },
			"layout Kitchen",
		},
		{
			"after terminator",
			[]string{"--", "--log-level=error"},
			func(f logConfig) bool { return f.Level == "" },
			"level unset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if !tt.check(f) {
				t.Errorf("expected %s, got %+v", tt.expect, f)
			}
		})
	}
}

func TestScanBool(t *testing.T) {
	tests := []struct {
		negated, assigned bool
		value             string
		want, ok          bool
	}{
		{false, false, "", true, true},
		{true, false, "", false, true},
		{false, true, "false", false, true},
		{true, true, "false", true, true},
		{false, true, "nope", false, false},
	}

	for _, tt := range tests {
		if got, ok := scanBool(tt.negated, tt.assigned, tt.value); got != tt.want || ok != tt.ok {
			t.Errorf("scanBool(%v, %v, %q) = %v, %v; expected %v, %v",
				tt.negated, tt.assigned, tt.value, got, ok, tt.want, tt.ok)
		}
	}
}
