// Package core provides the deployment pipeline's building blocks: config
// loading, external tool invocation, cluster access, and the readiness
// predicates fed to the bounded poller. Functions in this package return
// structured results rather than printing to stdout/stderr, leaving output
// formatting to the commands.
package core

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
)

// Run executes a command, streaming stdout/stderr to the terminal.
func Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// RunDir executes a command in a specific directory, streaming output.
func RunDir(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// RunSilent executes a command and returns combined stdout+stderr (trimmed).
func RunSilent(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return strings.TrimSpace(out.String()), err
}

// RunCapture executes a command and returns stdout only (trimmed).
func RunCapture(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), err
}

// CommandExists checks if a binary is on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
