package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/project-sunbird/sunbird-deploy/core"
)

var createBackendCmd = &cobra.Command{
	Use:   "create-backend [stage ...]",
	Short: "Provision the remote terraform state backend",
	Long: `Runs terragrunt apply in the backend directory to provision the Azure
storage that holds the terraform state. Additional stage names run in
sequence afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(append([]string{"create-backend"}, args...))
	},
}

var createResourcesCmd = &cobra.Command{
	Use:   "create-resources [stage ...]",
	Short: "Provision the environment's cluster resources",
	Long: `Runs terragrunt run-all apply in the environment directory to provision
the Kubernetes cluster and its supporting Azure resources. Additional stage
names run in sequence afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(append([]string{"create-resources"}, args...))
	},
}

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Destroy the environment's cluster resources",
	Long: `Runs terragrunt run-all destroy in the environment directory. This is
irreversible — the cluster and everything running on it will be destroyed.
The state backend is left intact.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages([]string{"destroy"})
	},
}

var destroyForce bool

func init() {
	destroyCmd.Flags().BoolVarP(&destroyForce, "force", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(createBackendCmd)
	rootCmd.AddCommand(createResourcesCmd)
	rootCmd.AddCommand(destroyCmd)
}

func stageCreateBackend(cfg *core.Config) error {
	header("Provisioning state backend")

	if !core.CommandExists("terragrunt") {
		return fmt.Errorf("terragrunt not found on PATH")
	}

	step("🔧", fmt.Sprintf("terragrunt apply (%s)", cfg.BackendDir()))
	if err := core.CreateBackend(cfg); err != nil {
		return err
	}
	success("State backend ready")
	return nil
}

func stageCreateResources(cfg *core.Config) error {
	header(fmt.Sprintf("Provisioning resources for %s", cfg.Environment))

	if !core.CommandExists("terragrunt") {
		return fmt.Errorf("terragrunt not found on PATH")
	}

	step("🔧", fmt.Sprintf("terragrunt run-all apply (%s)", cfg.EnvironmentDir()))
	if err := core.CreateResources(cfg); err != nil {
		return err
	}
	success("Cluster resources ready")
	return nil
}

func stageDestroy(cfg *core.Config) error {
	header(fmt.Sprintf("Destroying resources for %s", cfg.Environment))

	if !core.CommandExists("terragrunt") {
		return fmt.Errorf("terragrunt not found on PATH")
	}

	if !destroyForce {
		fmt.Printf("\n  %s⚠️  This will permanently destroy the %s environment.%s\n", colorYellow, cfg.Environment, colorReset)
		fmt.Printf("  Type the environment name to confirm: ")

		var confirm string
		fmt.Scanln(&confirm)
		if confirm != cfg.Environment {
			fmt.Println("  Aborted.")
			return nil
		}
	}

	step("💥", fmt.Sprintf("terragrunt run-all destroy (%s)", cfg.EnvironmentDir()))
	if err := core.DestroyResources(cfg); err != nil {
		return err
	}

	success("Environment destroyed")
	fmt.Println()
	fmt.Printf("  Recreate with: %ssunbird-deploy create-resources%s\n", colorCyan, colorReset)
	fmt.Println()
	return nil
}
