package core

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// PlatformConfigMap is the config map the platform charts publish their
// runtime settings under. The install stage pre-creates it empty so charts
// that mount it come up before the values are written; the generate-env
// stage reads the filled-in values back.
const PlatformConfigMap = "sunbird-env"

// Keys within PlatformConfigMap.
const (
	keyDomain        = "sunbird_domain"
	keyAPIKey        = "sunbird_api_key"
	keySessionSecret = "sunbird_session_secret"
	keyAdminUsername = "sunbird_admin_username"
	keyAdminPassword = "sunbird_admin_password"
)

// PlatformSettings holds the in-cluster values that feed the generated
// Postman environment.
type PlatformSettings struct {
	Domain        string
	APIKey        string
	SessionSecret string
	AdminUsername string
	AdminPassword string
}

// FetchPlatformSettings reads the settings out of the platform config map.
func (k *KubeClient) FetchPlatformSettings(ctx context.Context, namespace string) (*PlatformSettings, error) {
	var s PlatformSettings
	for key, dst := range map[string]*string{
		keyDomain:        &s.Domain,
		keyAPIKey:        &s.APIKey,
		keySessionSecret: &s.SessionSecret,
		keyAdminUsername: &s.AdminUsername,
		keyAdminPassword: &s.AdminPassword,
	} {
		val, err := k.ConfigValue(ctx, namespace, PlatformConfigMap, key)
		if err != nil {
			return nil, err
		}
		*dst = val
	}
	return &s, nil
}

// ReplacePlaceholders substitutes the template's placeholder tokens with the
// platform settings.
func ReplacePlaceholders(template string, s *PlatformSettings) string {
	return strings.NewReplacer(
		"{{DOMAIN}}", s.Domain,
		"{{API_KEY}}", s.APIKey,
		"{{SESSION_SECRET}}", s.SessionSecret,
		"{{ADMIN_USERNAME}}", s.AdminUsername,
		"{{ADMIN_PASSWORD}}", s.AdminPassword,
	).Replace(template)
}

// GeneratePostmanEnv renders the Postman environment template to outPath.
func GeneratePostmanEnv(templatePath, outPath string, s *PlatformSettings) error {
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("cannot read postman template %s: %w", templatePath, err)
	}
	rendered := ReplacePlaceholders(string(raw), s)
	if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("cannot write postman environment %s: %w", outPath, err)
	}
	return nil
}

// RunCollection executes the API test collection against the generated
// environment file.
func RunCollection(collection, envFile string) error {
	if err := Run("newman", "run", collection, "-e", envFile); err != nil {
		return fmt.Errorf("newman run failed: %w", err)
	}
	return nil
}
