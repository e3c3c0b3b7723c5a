package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValuesArgs returns the layered -f arguments for a component's helm
// install, in order of increasing precedence: global values, the chart's
// own values, then the per-environment override — included only when the
// override file actually exists.
func ValuesArgs(chartDir, environment, component string) []string {
	args := []string{
		"-f", filepath.Join(chartDir, "global-values.yaml"),
		"-f", filepath.Join(chartDir, component, "values.yaml"),
	}
	override := filepath.Join(chartDir, environment+"-overrides", component+".yaml")
	if _, err := os.Stat(override); err == nil {
		args = append(args, "-f", override)
	}
	return args
}

// installArgs builds the full helm invocation for one component.
func installArgs(cfg *Config, component string) []string {
	args := []string{
		"upgrade", "--install", component,
		filepath.Join(cfg.ChartDir, component),
		"-n", cfg.Namespace,
	}
	args = append(args, ValuesArgs(cfg.ChartDir, cfg.Environment, component)...)
	if cfg.ReleaseTag != "" {
		args = append(args, "--set", "global.releaseTag="+cfg.ReleaseTag)
	}
	return args
}

// InstallComponent installs or upgrades a single platform component chart,
// streaming helm's output to the terminal.
func InstallComponent(cfg *Config, component string) error {
	chart := filepath.Join(cfg.ChartDir, component)
	if _, err := os.Stat(chart); err != nil {
		return fmt.Errorf("chart for %s not found at %s — check chartDir in the deploy config", component, chart)
	}
	if err := Run("helm", installArgs(cfg, component)...); err != nil {
		return fmt.Errorf("helm upgrade --install %s failed: %w", component, err)
	}
	return nil
}
