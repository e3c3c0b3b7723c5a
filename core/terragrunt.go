package core

import (
	"fmt"
	"os"
)

// CreateBackend provisions the remote state backend (Azure storage for the
// terraform state) by applying the backend terragrunt stack.
func CreateBackend(cfg *Config) error {
	dir := cfg.BackendDir()
	if err := checkDir(dir); err != nil {
		return err
	}
	if err := RunDir(dir, "terragrunt", "apply", "-auto-approve", "--terragrunt-non-interactive"); err != nil {
		return fmt.Errorf("terragrunt apply failed in %s: %w", dir, err)
	}
	return nil
}

// CreateResources provisions the environment's cluster resources by applying
// every terragrunt stack under the environment directory.
func CreateResources(cfg *Config) error {
	dir := cfg.EnvironmentDir()
	if err := checkDir(dir); err != nil {
		return err
	}
	if err := RunDir(dir, "terragrunt", "run-all", "apply", "--terragrunt-non-interactive"); err != nil {
		return fmt.Errorf("terragrunt run-all apply failed in %s: %w", dir, err)
	}
	return nil
}

// DestroyResources tears down every terragrunt stack under the environment
// directory. The backend stack is left alone so the state store survives.
func DestroyResources(cfg *Config) error {
	dir := cfg.EnvironmentDir()
	if err := checkDir(dir); err != nil {
		return err
	}
	if err := RunDir(dir, "terragrunt", "run-all", "destroy", "--terragrunt-non-interactive"); err != nil {
		return fmt.Errorf("terragrunt run-all destroy failed in %s: %w", dir, err)
	}
	return nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("terragrunt directory %s not found — check terraformDir in the deploy config: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("terragrunt path %s is not a directory", dir)
	}
	return nil
}
