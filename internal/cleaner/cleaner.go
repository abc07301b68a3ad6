// Package cleaner removes worker working directories.
package cleaner

import (
	"os"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

// Cleaner recursively removes a directory. Missing paths are not an error.
type Cleaner interface {
	Clean(path string) error
}

// FSCleaner is the filesystem-backed Cleaner used in production.
type FSCleaner struct{}

func New() *FSCleaner {
	return &FSCleaner{}
}

func (c *FSCleaner) Clean(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return cperr.Wrap(errorkind.FailedToDeleteFile, "failed to remove working directory "+path, err)
	}
	return nil
}
