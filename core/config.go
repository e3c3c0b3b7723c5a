package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Config is the explicit deployment configuration: environment name,
// release tag, and every tool directory are named here and validated up
// front, so no stage depends on the working directory it happens to run
// from.
type Config struct {
	Environment string `mapstructure:"environment"`
	Domain      string `mapstructure:"domain"`
	PublicIP    string `mapstructure:"publicIP"`

	TerraformDir string `mapstructure:"terraformDir"`
	ChartDir     string `mapstructure:"chartDir"`

	Namespace  string   `mapstructure:"namespace"`
	Components []string `mapstructure:"components"`
	Workloads  []string `mapstructure:"workloads"`

	PostmanTemplate   string `mapstructure:"postmanTemplate"`
	PostmanOutput     string `mapstructure:"postmanOutput"`
	PostmanCollection string `mapstructure:"postmanCollection"`

	ReleaseTag string `mapstructure:"releaseTag"`
	Kubeconfig string `mapstructure:"kubeconfig"`
}

// configKeys are the scalar keys that may be overridden via SUNBIRD_*
// environment variables (e.g. SUNBIRD_DOMAIN, SUNBIRD_RELEASETAG).
var configKeys = []string{
	"environment", "domain", "publicIP", "terraformDir", "chartDir",
	"namespace", "postmanTemplate", "postmanOutput", "postmanCollection",
	"releaseTag", "kubeconfig",
}

// LoadConfig reads the deployment config from the given YAML file.
// Environment variables with the SUNBIRD_ prefix override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("SUNBIRD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		// Explicit binds so env overrides survive Unmarshal.
		_ = v.BindEnv(key)
	}

	v.SetDefault("namespace", "sunbird")
	v.SetDefault("postmanOutput", "postman-env.generated.json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read deploy config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid deploy config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that every field the pipeline relies on is set. Directory
// existence is checked by the stages that use them, so that e.g. a DNS-only
// run does not require a chart checkout.
func (c *Config) Validate() error {
	var missing []string
	required := map[string]string{
		"environment":  c.Environment,
		"domain":       c.Domain,
		"publicIP":     c.PublicIP,
		"terraformDir": c.TerraformDir,
		"chartDir":     c.ChartDir,
		"namespace":    c.Namespace,
	}
	for key, val := range required {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("deploy config missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(c.Components) == 0 {
		return fmt.Errorf("deploy config lists no components")
	}
	return nil
}

// BackendDir is the terragrunt directory that provisions the remote state
// backend.
func (c *Config) BackendDir() string {
	return filepath.Join(c.TerraformDir, "backend")
}

// EnvironmentDir is the terragrunt directory for this environment's
// resources.
func (c *Config) EnvironmentDir() string {
	return filepath.Join(c.TerraformDir, c.Environment)
}
