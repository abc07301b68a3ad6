// Package secrets resolves named secrets (git credentials, etc.) for the
// collaborators that need them. The core never inspects secret values; it
// only passes the resolved strings through to the Downloader at
// construction time.
package secrets

import "fmt"

// Manager resolves a named secret to its value.
type Manager interface {
	GetSecret(name string) (string, error)
}

// EnvManager resolves secrets from environment variables, upper-casing and
// replacing "-" with "_" in the secret name (e.g. "git-password" →
// GIT_PASSWORD). This is the minimal collaborator implementation; a real
// deployment would swap in a vault/KMS-backed Manager behind the same
// interface.
type EnvManager struct{}

func NewEnv() EnvManager {
	return EnvManager{}
}

func (EnvManager) GetSecret(name string) (string, error) {
	key := envKey(name)
	value, ok := lookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret %q (env %s) is not set", name, key)
	}
	return value, nil
}
