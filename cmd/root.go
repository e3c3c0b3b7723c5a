package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/project-sunbird/sunbird-deploy/core"
)

var (
	// configPath is the deploy config YAML used by all commands.
	configPath string

	// kubeconfig overrides the default kubeconfig loading rules.
	kubeconfig string

	// envName overrides the config's environment name.
	envName string
)

var rootCmd = &cobra.Command{
	Use:   "sunbird-deploy [stage ...]",
	Short: "sunbird-deploy — provision and install the Sunbird platform on Azure",
	Long: `sunbird-deploy sequences the Sunbird platform deployment: terragrunt
provisioning, Helm chart installation, DNS propagation checking, Postman
environment generation, and post-install verification.

Run with no arguments for the full pipeline:

  create-backend → create-resources → install-components →
  dns-check → generate-env → post-install

or name one or more stages to run them in sequence:

  sunbird-deploy create-backend create-resources   # provision only
  sunbird-deploy install-components                # all charts
  sunbird-deploy install keycloak                  # one chart
  sunbird-deploy dns-check generate-env post-install
  sunbird-deploy destroy                           # tear down resources`,
	Args: cobra.ArbitraryArgs,
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "deploy-config.yaml", "Path to the deploy config YAML")
	rootCmd.PersistentFlags().StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig (default: standard loading rules)")
	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "Environment name override")
	rootCmd.SilenceUsage = true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// stageFunc is one named unit of the pipeline.
type stageFunc func(cfg *core.Config) error

// pipelineOrder is the zero-argument full run. destroy is reachable only by
// name, never as part of the default pipeline.
var pipelineOrder = []string{
	"create-backend",
	"create-resources",
	"install-components",
	"dns-check",
	"generate-env",
	"post-install",
}

// stages maps stage names to their implementations.
var stages = map[string]stageFunc{
	"create-backend":     stageCreateBackend,
	"create-resources":   stageCreateResources,
	"install-components": stageInstallComponents,
	"dns-check":          stageDNSCheck,
	"generate-env":       stageGenerateEnv,
	"post-install":       stagePostInstall,
	"destroy":            stageDestroy,
}

func stageNames() []string {
	names := append([]string{}, pipelineOrder...)
	return append(names, "destroy")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runStages(pipelineOrder)
	}
	return runStages(args)
}

// runStages validates the named stages up front, then executes them in
// order, aborting on the first failure.
func runStages(names []string) error {
	for _, n := range names {
		if _, ok := stages[n]; !ok {
			return fmt.Errorf("unknown stage %q (valid stages: %s)", n, strings.Join(stageNames(), ", "))
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	for _, n := range names {
		if err := stages[n](cfg); err != nil {
			return fmt.Errorf("stage %s: %w", n, err)
		}
	}

	fmt.Println()
	success(fmt.Sprintf("Completed: %s", strings.Join(names, " → ")))
	fmt.Println()
	return nil
}

// loadConfig reads and validates the deploy config, applying flag
// overrides.
func loadConfig() (*core.Config, error) {
	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if envName != "" {
		cfg.Environment = envName
	}
	if kubeconfig != "" {
		cfg.Kubeconfig = kubeconfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func kubeClient(cfg *core.Config) (*core.KubeClient, error) {
	return core.NewKubeClient(cfg.Kubeconfig)
}
