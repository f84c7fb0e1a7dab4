package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"reflect"
	"strings"
	"testing"

	"github.com/goplus/skbuild/internal/pipeline"
	"github.com/goplus/skbuild/internal/toolexec"
)

func TestSplitArchs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "arm64", []string{"arm64"}},
		{"list", "x86_64,arm64", []string{"x86_64", "arm64"}},
		{"spaces and blanks", " x64 , ,arm64,", []string{"x64", "arm64"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitArchs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitArchs(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func setBuildFlags(t *testing.T, archs, variant string, zip bool) {
	t.Helper()
	oldArchs, oldVariant, oldZip := buildArchs, buildVariant, buildZipAll
	buildArchs, buildVariant, buildZipAll = archs, variant, zip
	t.Cleanup(func() {
		buildArchs, buildVariant, buildZipAll = oldArchs, oldVariant, oldZip
	})
}

func TestBuildInput(t *testing.T) {
	setBuildFlags(t, "x86_64,arm64", "cpu", true)
	in := buildInput("ios")
	if in.Platform != "ios" || in.Variant != "cpu" || !in.ZipAll {
		t.Errorf("input = %+v", in)
	}
	if !reflect.DeepEqual(in.Archs, []string{"x86_64", "arm64"}) {
		t.Errorf("archs = %v", in.Archs)
	}
	req, err := pipeline.NewRequest(in)
	if err != nil {
		t.Fatal(err)
	}
	if req.Platform.String() != "ios" {
		t.Errorf("platform = %s", req.Platform)
	}
}

func TestRunBuildRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		archs    string
		variant  string
		want     error
	}{
		{"unknown platform", "android", "", "", pipeline.ErrUnknownPlatform},
		{"arch of another platform", "win", "x86_64", "", pipeline.ErrInvalidArch},
		{"bad variant", "linux", "", "metal", pipeline.ErrInvalidVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuildFlags(t, tt.archs, tt.variant, false)
			err := runBuild(buildCmd, []string{tt.platform})
			if !errors.Is(err, tt.want) {
				t.Errorf("runBuild(%s) = %v, want %v", tt.platform, err, tt.want)
			}
		})
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, "linux", &pipeline.Result{
		BuildID:   "id-1",
		Revision:  "abc123",
		Summaries: []string{"/b/linux-gpu/lib/gn_args.txt"},
	})
	out := buf.String()
	for _, want := range []string{"linux completed", "revision: abc123", "build id: id-1", "gn_args.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "archive") {
		t.Errorf("archive line without archive:\n%s", out)
	}
}

func TestListPlatforms(t *testing.T) {
	var buf bytes.Buffer
	if err := listPlatforms(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if f := strings.Fields(lines[1]); len(f) != 3 || f[0] != "mac" || f[1] != "x86_64,arm64,universal" || f[2] != "universal" {
		t.Errorf("mac line = %q", lines[1])
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"build", "clean", "patch", "platforms"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("command %s not registered: %v", name, err)
		}
	}
}

func TestIgnoredFlags(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		config   string
		archs    string
		want     []string
	}{
		{"xcframework defaults", "xcframework", "", "", nil},
		{"xcframework release", "xcframework", "Release", "", nil},
		{"xcframework overridden", "xcframework", "Debug", "arm64", []string{"config", "archs"}},
		{"mac honours flags", "mac", "Debug", "arm64", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuildFlags(t, tt.archs, "", false)
			old := buildConfig
			buildConfig = tt.config
			t.Cleanup(func() { buildConfig = old })

			req, err := pipeline.NewRequest(buildInput(tt.platform))
			if err != nil {
				t.Fatal(err)
			}
			if got := ignoredFlags(req); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ignoredFlags = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRunnerEnv(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	var out bytes.Buffer
	if err := newRunner(&out).Run(context.Background(), "", sh, "-c", "echo $DEPOT_TOOLS_UPDATE"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "0" {
		t.Errorf("DEPOT_TOOLS_UPDATE = %q, want 0", got)
	}
}

func TestExitMessage(t *testing.T) {
	if got := exitMessage(errors.New("bad")); got != "Error: bad" {
		t.Errorf("plain error = %q", got)
	}

	missing := &toolexec.Error{Cmd: "ninja -C out", Err: exec.ErrNotFound}
	if got := exitMessage(missing); !strings.HasSuffix(got, "\nninja -C out could not be started") {
		t.Errorf("missing tool = %q", got)
	}

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	err = newRunner(nil).Run(context.Background(), "", sh, "-c", "exit 3")
	got := exitMessage(fmt.Errorf("build linux x64: %w", err))
	if !strings.HasSuffix(got, "exited with status 3") {
		t.Errorf("failed tool = %q", got)
	}
}
