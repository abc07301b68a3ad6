package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("CP_CONFIG_REPO", "https://git.example.com/configs.git")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Environments: [development, staging, production]
StaticStages: [main]
Git:
  Repository: ${CP_CONFIG_REPO}
  UsernameSecret: git-username
  PasswordSecret: git-password
TcpListener:
  Port: 9090
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://git.example.com/configs.git", cfg.Git.Repository)
	require.Equal(t, uint(2), cfg.ConfigSuppliersCount)
	require.Equal(t, 30, cfg.Timeouts.ControllersConfigGetConfig)
	require.Equal(t, 9090, cfg.TcpListener.Port)
	require.Equal(t, "0.0.0.0", cfg.TcpListener.Address)
	require.Equal(t, HealthProbe{Stage: "dummy", Environment: "development", Component: "dummy"}, cfg.HealthProbe)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
