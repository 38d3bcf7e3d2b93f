package sfcli

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrCLINotFound - the Salesforce CLI could not be located anywhere.
var ErrCLINotFound = errors.New("sf cli not found")

// probeTimeout bounds a single --version check.
const probeTimeout = 10 * time.Second

// versionMarker must appear in --version output for a candidate to count
// as a real Salesforce CLI and not some unrelated binary named "sf".
const versionMarker = "salesforce"

// Command - argv prefix used to invoke the SF CLI (e.g., ["sf"] or
// ["npx", "@salesforce/cli"]).
type Command []string

// Detector - locates a working SF CLI installation. The resolved command is
// kept in memory for the lifetime of the process; nothing is persisted.
type Detector struct {
	sugar   *zap.SugaredLogger
	command Command

	// probe and npmPrefix are replaceable in tests.
	probe     func(ctx context.Context, argv []string) bool
	npmPrefix func(ctx context.Context) (string, error)
}

// NewDetector creates and returns a new Detector instance.
func NewDetector(sugar *zap.SugaredLogger) *Detector {
	d := &Detector{sugar: sugar}
	d.probe = d.probeVersion
	d.npmPrefix = npmConfigPrefix
	return d
}

// Detect resolves the SF CLI invocation prefix. Candidates are tried in a
// fixed order: plain sf/sfdx commands, npx variants, then executables under
// the npm installation prefix. The first candidate whose --version output
// contains the Salesforce marker wins.
func (d *Detector) Detect(ctx context.Context) (Command, error) {
	if d.command != nil {
		return d.command, nil
	}

	candidates := []Command{
		{"sf"},
		{"sfdx"},
		{"npx", "sf"},
		{"npx", "@salesforce/cli"},
		{"npx", "sfdx"},
	}

	for _, cand := range candidates {
		if d.probe(ctx, cand) {
			d.sugar.Infof("found SF CLI: %s", strings.Join(cand, " "))
			d.command = cand
			return cand, nil
		}
		d.sugar.Debugf("candidate rejected: %s", strings.Join(cand, " "))
	}

	if cand := d.detectUnderNpmPrefix(ctx); cand != nil {
		d.command = cand
		return cand, nil
	}

	return nil, ErrCLINotFound
}

// detectUnderNpmPrefix asks npm for its installation prefix and probes the
// usual bin directories beneath it for an sf or sfdx executable.
func (d *Detector) detectUnderNpmPrefix(ctx context.Context) Command {
	prefix, err := d.npmPrefix(ctx)
	if err != nil || prefix == "" {
		d.sugar.Debugf("npm prefix unavailable: %v", err)
		return nil
	}
	d.sugar.Debugf("npm prefix: %s", prefix)

	dirs := []string{
		filepath.Join(prefix, "bin"),
		filepath.Join(prefix, "node_modules", ".bin"),
		filepath.Join(prefix, "lib", "node_modules", ".bin"),
		filepath.Join(prefix, "node_modules", "@salesforce", "cli", "bin"),
		filepath.Join(prefix, "lib", "node_modules", "@salesforce", "cli", "bin"),
	}

	for _, dir := range dirs {
		for _, name := range []string{"sf", "sfdx"} {
			path := filepath.Join(dir, name)
			if !isExecutable(path) {
				continue
			}
			if d.probe(ctx, []string{path}) {
				d.sugar.Infof("found SF CLI at: %s", path)
				return Command{path}
			}
		}
	}

	return nil
}

// probeVersion runs "<candidate> --version" and checks the output for the
// Salesforce marker.
func (d *Detector) probeVersion(ctx context.Context, argv []string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	args := append(append([]string{}, argv[1:]...), "--version")
	cmd := exec.CommandContext(ctx, argv[0], args...)
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(out)), versionMarker)
}

// npmConfigPrefix returns the npm installation prefix. Only "npm config get
// prefix" is used; no package listing is run.
func npmConfigPrefix(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "npm", "config", "get", "prefix").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
