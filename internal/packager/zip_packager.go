package packager

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

// ZipPackager archives a directory as a zip file using stdlib archive/zip.
//
// Enumeration is deliberately non-recursive: only the direct entries of
// sourceDir are read and stored. Nested subdirectories are skipped rather
// than descended into. Whether that is intentional upstream is unclear;
// it is preserved here rather than fixed.
type ZipPackager struct{}

func NewZip() *ZipPackager {
	return &ZipPackager{}
}

func (p *ZipPackager) Extension() string {
	return "zip"
}

func (p *ZipPackager) Package(sourceDir, targetFile string) error {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to read source directory "+sourceDir, err)
	}

	out, err := os.Create(targetFile)
	if err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to create archive "+targetFile, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addFile(zw, sourceDir, entry.Name()); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to finalize archive "+targetFile, err)
	}
	return nil
}

func addFile(zw *zip.Writer, sourceDir, name string) error {
	path := filepath.Join(sourceDir, name)
	f, err := os.Open(path)
	if err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to open "+path, err)
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to add "+name+" to archive", err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return cperr.Wrap(errorkind.FailedToRead, "failed to write "+name+" to archive", err)
	}
	return nil
}
