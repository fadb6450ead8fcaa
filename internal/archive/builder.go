// Package archive materializes a cloned site's folder tree and packages it
// into a single zip archive, mirrored into a public downloads directory.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jonesrussell/goclone/internal/logger"
)

// DocumentFileName is the entry point written at the root of a clone folder.
const DocumentFileName = "index.html"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Builder lays out clone folders under a work directory and publishes
// archives into a public downloads directory.
type Builder struct {
	workDir   string
	publicDir string
	log       logger.Interface
}

// NewBuilder creates an archive builder rooted at workDir that publishes
// archives into publicDir.
func NewBuilder(workDir, publicDir string, log logger.Interface) *Builder {
	return &Builder{
		workDir:   workDir,
		publicDir: publicDir,
		log:       log,
	}
}

// FolderRoot returns the absolute clone folder for a sanitized folder name.
func (b *Builder) FolderRoot(folderName string) string {
	return filepath.Join(b.workDir, folderName)
}

// Materialize writes the rewritten document as the clone's entry point.
// Asset bytes are persisted separately at their local paths before archiving.
func (b *Builder) Materialize(folderRoot, documentHTML string) error {
	if err := os.MkdirAll(folderRoot, dirPerm); err != nil {
		return fmt.Errorf("failed to create clone folder %s: %w", folderRoot, err)
	}

	dest := filepath.Join(folderRoot, DocumentFileName)
	if err := os.WriteFile(dest, []byte(documentHTML), filePerm); err != nil {
		return fmt.Errorf("failed to write document %s: %w", dest, err)
	}

	return nil
}

// Build packages the entire folder tree into <folderName>.zip in the work
// directory and copies the archive byte-for-byte into the public downloads
// directory, creating it if absent. An existing archive of the same name is
// overwritten.
func (b *Builder) Build(folderRoot, folderName string) (archivePath, publicPath string, err error) {
	archiveName := folderName + ".zip"
	archivePath = filepath.Join(b.workDir, archiveName)

	if err = b.zipFolder(folderRoot, folderName, archivePath); err != nil {
		return "", "", err
	}

	if err = os.MkdirAll(b.publicDir, dirPerm); err != nil {
		return "", "", fmt.Errorf("failed to create public dir %s: %w", b.publicDir, err)
	}

	publicPath = filepath.Join(b.publicDir, archiveName)
	if err = copyFile(archivePath, publicPath); err != nil {
		return "", "", fmt.Errorf("failed to publish archive: %w", err)
	}

	b.log.Info("archive built",
		"archive", archivePath,
		"public", publicPath)

	return archivePath, publicPath, nil
}

// zipFolder writes the folder tree rooted at folderRoot into a zip archive.
// Entries are prefixed with folderName so the archive extracts into a single
// directory; WalkDir's lexical order keeps the layout deterministic.
func (b *Builder) zipFolder(folderRoot, folderName, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", dest, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(folderRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(folderRoot, path)
		if relErr != nil {
			return relErr
		}

		entry, createErr := zw.Create(filepath.ToSlash(filepath.Join(folderName, rel)))
		if createErr != nil {
			return createErr
		}

		src, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		defer src.Close()

		_, copyErr := io.Copy(entry, src)
		return copyErr
	})
	if walkErr != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to archive %s: %w", folderRoot, walkErr)
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive %s: %w", dest, err)
	}

	return nil
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}
