package setup

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lixenwraith/graphina/config"
	"github.com/lixenwraith/graphina/panel"
)

func TestPlatformKey(t *testing.T) {
	tests := []struct {
		goos, goarch, want string
	}{
		{"linux", "amd64", "x86_64-linux"},
		{"darwin", "amd64", "x86_64-darwin"},
		{"darwin", "arm64", "arm64-darwin"},
		{"linux", "arm64", "arm64-linux"},
		{"windows", "amd64", ""},
		{"linux", "riscv64", ""},
	}
	for _, tt := range tests {
		if got := PlatformKey(tt.goos, tt.goarch); got != tt.want {
			t.Errorf("PlatformKey(%s, %s): expected %q, got %q", tt.goos, tt.goarch, tt.want, got)
		}
	}
}

func TestBundledDefaultsAreValid(t *testing.T) {
	want := []string{"arm64-darwin", "arm64-linux", "x86_64-darwin", "x86_64-linux"}
	if got := strings.Join(Names(), ","); got != strings.Join(want, ",") {
		t.Fatalf("Expected %v, got %v", want, Names())
	}
	for _, name := range want {
		data, ok := Default(name)
		if !ok {
			t.Fatalf("Missing default %s", name)
		}
		entries, err := config.ParseRegistry(data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(entries) == 0 {
			t.Errorf("%s: no panels", name)
		}
		for _, e := range entries {
			if _, err := panel.New(e.Options); err != nil {
				t.Errorf("%s/%s: %v", name, e.Name, err)
			}
		}
	}
}

func TestInstallWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graphina", "panels.yml")
	var out bytes.Buffer
	inst := &Installer{Path: path, Out: &out, goos: "linux", goarch: "amd64"}
	if err := inst.Install(); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected installed file: %v", err)
	}
	want, _ := Default("x86_64-linux")
	if !bytes.Equal(got, want) {
		t.Error("Installed content differs from bundled default")
	}
	if !strings.Contains(out.String(), "have been installed") {
		t.Errorf("Expected confirmation, got %q", out.String())
	}
}

func TestInstallRefusesWithoutYes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yml")
	os.WriteFile(path, []byte("mine: {}\n"), 0o644)

	for _, answer := range []string{"n\n", "\n", "", "maybe\n"} {
		var out bytes.Buffer
		inst := &Installer{Name: "x86_64-linux", Path: path, Interactive: true, In: strings.NewReader(answer), Out: &out}
		if err := inst.Install(); err != nil {
			t.Fatalf("Install failed: %v", err)
		}
		if got, _ := os.ReadFile(path); string(got) != "mine: {}\n" {
			t.Errorf("Answer %q overwrote the file", answer)
		}
		wantPrompt := `"` + path + `" exists. Overwrite (y/n)? `
		if out.String() != wantPrompt {
			t.Errorf("Expected prompt %q, got %q", wantPrompt, out.String())
		}
	}
}

func TestInstallOverwritesOnYes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yml")
	os.WriteFile(path, []byte("mine: {}\n"), 0o644)

	inst := &Installer{Name: "arm64-darwin", Path: path, In: strings.NewReader("Yes\n")}
	if err := inst.Install(); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	got, _ := os.ReadFile(path)
	want, _ := Default("arm64-darwin")
	if !bytes.Equal(got, want) {
		t.Error("Expected file overwritten with arm64-darwin defaults")
	}
}

func TestInstallMissingDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.yml")
	var errOut bytes.Buffer
	inst := &Installer{Name: "sparc-solaris", Path: path, Err: &errOut}
	if err := inst.Install(); err != nil {
		t.Fatalf("Expected nil error for a missing default, got %v", err)
	}
	if !strings.Contains(errOut.String(), `"sparc-solaris" could not be installed`) {
		t.Errorf("Expected report on stderr, got %q", errOut.String())
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("Expected no file written")
	}

	errOut.Reset()
	inst = &Installer{Path: path, Err: &errOut, goos: "windows", goarch: "amd64"}
	inst.Install()
	if !strings.Contains(errOut.String(), "cannot be inferred") {
		t.Errorf("Expected platform report, got %q", errOut.String())
	}
}
