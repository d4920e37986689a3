// Package setup installs a platform default panel registry.
package setup

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

//go:embed defaults/*.yml
var defaults embed.FS

// archNames maps GOARCH onto the names used for bundled defaults
var archNames = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
}

// PlatformKey names the bundled defaults for goos/goarch, "" when unsupported
func PlatformKey(goos, goarch string) string {
	arch, ok := archNames[goarch]
	if !ok || (goos != "linux" && goos != "darwin") {
		return ""
	}
	return arch + "-" + goos
}

// Names lists the bundled default sets
func Names() []string {
	entries, _ := fs.ReadDir(defaults, "defaults")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yml"))
	}
	sort.Strings(names)
	return names
}

// Default returns the bundled registry called name
func Default(name string) ([]byte, bool) {
	data, err := defaults.ReadFile("defaults/" + name + ".yml")
	if err != nil {
		return nil, false
	}
	return data, true
}

// Installer copies a bundled registry to Path
type Installer struct {
	// Name selects the bundled set; "" or "default" infers it from the platform
	Name string
	// Path is the registry file to write
	Path string
	// Interactive prints the overwrite prompt; the answer is read either way
	Interactive bool

	In  io.Reader
	Out io.Writer
	Err io.Writer

	goos, goarch string
}

// Install writes the default registry, asking before overwriting
// A missing default set is reported on Err and is not an error
func (i *Installer) Install() error {
	out, errOut := i.Out, i.Err
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	if _, err := os.Stat(i.Path); err == nil {
		if i.Interactive {
			fmt.Fprintf(out, "%q exists. Overwrite (y/n)? ", i.Path)
		}
		if !confirmed(i.In) {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", i.Path, err)
	}

	name := i.Name
	if name == "" || name == "default" {
		goos, goarch := i.goos, i.goarch
		if goos == "" {
			goos, goarch = runtime.GOOS, runtime.GOARCH
		}
		name = PlatformKey(goos, goarch)
		if name == "" {
			fmt.Fprintln(errOut, "Default panel configuration cannot be inferred for platform!")
			return nil
		}
	}

	data, ok := Default(name)
	if !ok {
		fmt.Fprintf(errOut, "Default panels for %q could not be installed.\n", name)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(i.Path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(i.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing panels: %w", err)
	}
	fmt.Fprintf(out, "Default panels %q have been installed to %q.\n", name, i.Path)
	return nil
}

// confirmed reads one line and accepts anything starting with y or Y
func confirmed(in io.Reader) bool {
	if in == nil {
		return false
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}
