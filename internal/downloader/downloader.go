// Package downloader materialises a stage (a branch of the upstream
// configuration repository) into a local working path.
package downloader

import "context"

// Downloader is an opaque pull mechanism. Credentials are supplied at
// construction; implementations never expose them back to callers.
type Downloader interface {
	// Download materialises stage into targetPath: a fresh clone if
	// targetPath is not yet a repository, otherwise an incremental
	// fetch+update.
	Download(ctx context.Context, targetPath, stage string) error

	// IsNewVersionAvailable fetches without merging and reports whether the
	// local HEAD differs from the remote tip of stage.
	IsNewVersionAvailable(ctx context.Context, targetPath, stage string) (bool, error)
}
