package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/project-sunbird/sunbird-deploy/core"
)

var generateEnvCmd = &cobra.Command{
	Use:   "generate-env [stage ...]",
	Short: "Generate the Postman environment from in-cluster config",
	Long: `Reads the platform's domain, API key, session secret, and admin
credentials from the cluster config map, substitutes them into the Postman
environment template, and writes the generated environment file.

With --watch the template is watched and the environment regenerated on
every change (Ctrl+C to stop). Additional stage names run in sequence
afterwards (not combinable with --watch).`,
	RunE: runGenerateEnv,
}

var watchTemplate bool

func init() {
	generateEnvCmd.Flags().BoolVarP(&watchTemplate, "watch", "w", false, "Regenerate whenever the template changes")
	rootCmd.AddCommand(generateEnvCmd)
}

func runGenerateEnv(cmd *cobra.Command, args []string) error {
	if !watchTemplate {
		return runStages(append([]string{"generate-env"}, args...))
	}
	if len(args) > 0 {
		return fmt.Errorf("--watch cannot be combined with further stages")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := stageGenerateEnv(cfg); err != nil {
		return err
	}
	return watchAndRegenerate(cfg)
}

func stageGenerateEnv(cfg *core.Config) error {
	header("Generating Postman environment")

	if cfg.PostmanTemplate == "" {
		return fmt.Errorf("postmanTemplate not set in the deploy config")
	}
	if _, err := os.Stat(cfg.PostmanTemplate); err != nil {
		return fmt.Errorf("postman template %s not found", cfg.PostmanTemplate)
	}

	kube, err := kubeClient(cfg)
	if err != nil {
		return err
	}

	step("🔑", fmt.Sprintf("Reading %s from %s", core.PlatformConfigMap, cfg.Namespace))
	settings, err := kube.FetchPlatformSettings(context.Background(), cfg.Namespace)
	if err != nil {
		return err
	}

	step("✏️ ", fmt.Sprintf("%s → %s", cfg.PostmanTemplate, cfg.PostmanOutput))
	if err := core.GeneratePostmanEnv(cfg.PostmanTemplate, cfg.PostmanOutput, settings); err != nil {
		return err
	}

	success(fmt.Sprintf("Environment written to %s", cfg.PostmanOutput))
	return nil
}

// watchAndRegenerate re-renders the environment whenever the template
// changes. Editors replace files rather than writing in place, so the watch
// is on the template's directory and events are filtered by name.
func watchAndRegenerate(cfg *core.Config) error {
	fmt.Printf("\n  %sWatching %s — press Ctrl+C to stop%s\n\n", colorDim, cfg.PostmanTemplate, colorReset)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(cfg.PostmanTemplate)); err != nil {
		return fmt.Errorf("cannot watch %s: %w", filepath.Dir(cfg.PostmanTemplate), err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	target := filepath.Clean(cfg.PostmanTemplate)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			ts := time.Now().Format("15:04:05")
			fmt.Printf("  %s[%s]%s  template changed\n", colorDim, ts, colorReset)
			if err := stageGenerateEnv(cfg); err != nil {
				warn(fmt.Sprintf("Regeneration failed: %v", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			warn(fmt.Sprintf("Watch error: %v", err))

		case <-sigCh:
			fmt.Println("\n  Stopped.")
			return nil
		}
	}
}
