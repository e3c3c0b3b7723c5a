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
	dnsTimeout  = 20 * time.Minute
	dnsInterval = 10 * time.Second
)

var dnsCheckCmd = &cobra.Command{
	Use:   "dns-check [stage ...]",
	Short: "Wait for the platform domain to resolve to the public IP",
	Long: `Polls DNS until the configured domain resolves to the expected public
IP, for up to 20 minutes at 10-second intervals. Additional stage names run
in sequence afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStages(append([]string{"dns-check"}, args...))
	},
}

func init() {
	rootCmd.AddCommand(dnsCheckCmd)
}

func stageDNSCheck(cfg *core.Config) error {
	header(fmt.Sprintf("Waiting for DNS: %s → %s", cfg.Domain, cfg.PublicIP))

	check := core.DNSCheck(cfg.Domain, cfg.PublicIP, nil)
	task := poller.Task{
		// Wrapped so each unready tick shows up on the terminal.
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
		Timeout:  dnsTimeout,
		Interval: dnsInterval,
	}

	out := task.Run(context.Background())
	if out.Status != poller.Succeeded {
		fail(fmt.Sprintf("DNS for %s did not propagate within %s", cfg.Domain, dnsTimeout))
		fmt.Println()
		fmt.Printf("  Point an A record for %s%s%s at %s%s%s, then finish the pipeline with:\n",
			colorCyan, cfg.Domain, colorReset, colorCyan, cfg.PublicIP, colorReset)
		fmt.Printf("    sunbird-deploy dns-check generate-env post-install\n")
		fmt.Println()
		return fmt.Errorf("dns check %s after %d checks (last: %s)", out.Status, out.Checks, out.Detail)
	}

	success(fmt.Sprintf("%s (%d checks, %s)", out.Detail, out.Checks, out.Elapsed.Round(time.Second)))
	return nil
}
