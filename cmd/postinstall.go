package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/project-sunbird/sunbird-deploy/core"
	"github.com/project-sunbird/sunbird-deploy/poller"
)

const (
	rolloutTimeout    = 5 * time.Minute
	podHealthTimeout  = 10 * time.Minute
	podHealthInterval = 10 * time.Second
	podFailureBudget  = 10
)

var postInstallCmd = &cobra.Command{
	Use:   "post-install [stage ...]",
	Short: "Restart workloads, verify pod health, run the API collection",
	Long: `Rolling-restarts the configured workloads, waits for every pod in the
namespace to settle into Running or Completed, then runs the Postman API
collection against the generated environment. Additional stage names run in
sequence afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(append([]string{"post-install"}, args...))
	},
}

func init() {
	rootCmd.AddCommand(postInstallCmd)
}

func stagePostInstall(cfg *core.Config) error {
	header("Post-install verification")

	if !core.CommandExists("kubectl") {
		return fmt.Errorf("kubectl not found on PATH")
	}

	// ── Rolling restart ─────────────────────────────────────────
	for _, w := range cfg.Workloads {
		step("🔄", fmt.Sprintf("Restarting deployment/%s", w))
		if err := core.RestartWorkload(cfg.Namespace, w); err != nil {
			return err
		}
	}
	for _, w := range cfg.Workloads {
		step("⏳", fmt.Sprintf("Waiting for deployment/%s rollout", w))
		if err := core.WaitForRollout(cfg.Namespace, w, rolloutTimeout); err != nil {
			return err
		}
	}

	// ── Pod health ──────────────────────────────────────────────
	kube, err := kubeClient(cfg)
	if err != nil {
		return err
	}

	step("🩺", fmt.Sprintf("Checking pod health in %s", cfg.Namespace))
	check := kube.PodHealthCheck(cfg.Namespace)
	task := poller.Task{
		Check: func(ctx context.Context) (bool, string, error) {
			ready, detail, err := check(ctx)
			if !ready {
				if err != nil {
					step("🔁", dimText(err.Error()))
				} else {
					step("🔁", dimText(detail))
				}
			}
			return ready, detail, err
		},
		Timeout:                podHealthTimeout,
		Interval:               podHealthInterval,
		MaxConsecutiveFailures: podFailureBudget,
	}

	out := task.Run(context.Background())
	if out.Status != poller.Succeeded {
		fail(fmt.Sprintf("Pods in %s did not stabilise (%s)", cfg.Namespace, out.Status))
		fmt.Println()
		fmt.Printf("  Inspect the stuck pods before re-running:\n")
		fmt.Printf("    kubectl get pods -n %s\n", cfg.Namespace)
		fmt.Printf("    kubectl logs -n %s <pod>\n", cfg.Namespace)
		fmt.Printf("  then finish with: sunbird-deploy post-install\n")
		fmt.Println()
		return fmt.Errorf("pod health check %s after %d checks (last: %s)", out.Status, out.Checks, out.Detail)
	}
	success(fmt.Sprintf("Pods healthy (%d checks, %s)", out.Checks, out.Elapsed.Round(time.Second)))

	// ── API collection ──────────────────────────────────────────
	if cfg.PostmanCollection == "" {
		warn("No postmanCollection configured — skipping API tests")
		return nil
	}
	if !core.CommandExists("newman") {
		return fmt.Errorf("newman not found on PATH (npm install -g newman)")
	}

	step("🧪", fmt.Sprintf("newman run %s -e %s", cfg.PostmanCollection, cfg.PostmanOutput))
	if err := core.RunCollection(cfg.PostmanCollection, cfg.PostmanOutput); err != nil {
		return err
	}

	success("API collection passed")
	return nil
}
