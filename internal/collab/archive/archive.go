// Package archive is the tarball/zip-extract collaborator the resolver
// calls into when an installed IP arrives as a staged download rather than
// a git checkout. Same os/exec-shelling shape as internal/collab/vcs,
// grounded on internal/policy.Engine.
package archive

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extractor unpacks archive into dest, which must already exist as an
// empty directory.
type Extractor interface {
	Extract(archive, dest string) error
}

// Tar dispatches to the system tar or unzip binary by the
// archive's file extension.
type Tar struct{}

// NewTar builds a Tar.
func NewTar() *Tar {
	return &Tar{}
}

// Extract unpacks archive into dest. ".zip" is handled by unzip; every tar
// variant (".tar", ".tar.gz"/".tgz", ".tar.bz2"/".tbz2", ".tar.xz"/".txz")
// is handled by tar, whose -a flag auto-detects the compression.
func (e *Tar) Extract(archivePath, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dest, err)
	}

	var cmd *exec.Cmd
	switch ext := strings.ToLower(filepath.Ext(archivePath)); ext {
	case ".zip":
		cmd = exec.Command("unzip", "-q", archivePath, "-d", dest)
	default:
		cmd = exec.Command("tar", "-x", "-a", "-f", archivePath, "-C", dest)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("extract %s: %w (%s)", archivePath, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
