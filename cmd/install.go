package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/project-sunbird/sunbird-deploy/core"
)

var installComponentsCmd = &cobra.Command{
	Use:   "install-components [stage ...]",
	Short: "Install every platform component chart",
	Long: `Installs the configured component charts in order with helm upgrade
--install, layering global values, chart values, and the per-environment
override (when one exists). The target namespace and the platform config map
are created first if missing. Additional stage names run in sequence
afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(append([]string{"install-components"}, args...))
	},
}

var installCmd = &cobra.Command{
	Use:   "install <component>",
	Short: "Install a single platform component chart",
	Long: `Installs one component chart with the same value layering as
install-components. Useful for iterating on a single service.

Example:
  sunbird-deploy install keycloak`,
	Args: cobra.ExactArgs(1),
	RunE: runInstallOne,
}

func init() {
	rootCmd.AddCommand(installComponentsCmd)
	rootCmd.AddCommand(installCmd)
}

func stageInstallComponents(cfg *core.Config) error {
	header(fmt.Sprintf("Installing %d components into %s", len(cfg.Components), cfg.Namespace))

	if err := prepareNamespace(cfg); err != nil {
		return err
	}

	for _, component := range cfg.Components {
		step("📦", fmt.Sprintf("helm upgrade --install %s", component))
		if err := core.InstallComponent(cfg, component); err != nil {
			return err
		}
	}

	success("All components installed")
	return nil
}

func runInstallOne(cmd *cobra.Command, args []string) error {
	component := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	header(fmt.Sprintf("Installing %s into %s", component, cfg.Namespace))

	if err := prepareNamespace(cfg); err != nil {
		return err
	}

	step("📦", fmt.Sprintf("helm upgrade --install %s", component))
	if err := core.InstallComponent(cfg, component); err != nil {
		return err
	}

	success(fmt.Sprintf("%s installed", component))
	return nil
}

// prepareNamespace idempotently creates the target namespace and the
// placeholder platform config map the charts mount. Both are no-ops when
// the objects already exist.
func prepareNamespace(cfg *core.Config) error {
	if !core.CommandExists("helm") {
		return fmt.Errorf("helm not found on PATH")
	}

	kube, err := kubeClient(cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	step("🗂️ ", fmt.Sprintf("Ensuring namespace %s", cfg.Namespace))
	if err := kube.EnsureNamespace(ctx, cfg.Namespace); err != nil {
		return err
	}

	step("🗂️ ", fmt.Sprintf("Ensuring config map %s", core.PlatformConfigMap))
	if err := kube.EnsureConfigMap(ctx, cfg.Namespace, core.PlatformConfigMap, map[string]string{}); err != nil {
		return err
	}

	return nil
}
