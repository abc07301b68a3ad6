package secrets

import (
	"os"
	"strings"
)

func envKey(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}
