// Package builder transforms a downloaded source tree into a rendered
// per-environment output tree.
package builder

import "context"

// Builder renders sourcePath for environment into targetPath.
type Builder interface {
	Build(ctx context.Context, environment, sourcePath, targetPath string) error
}
