// Package vcs is the git-clone collaborator the resolver calls into when an
// IP needs installing from a repository rather than a tarball. Shape is
// grounded on internal/policy.Engine's os/exec-shelling pattern in the
// teacher (there, Engine shells to an external rule evaluator and captures
// its stderr for the error message; here the same shape shells to git).
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Fetcher clones a repository at url into dest. On failure it returns a
// non-fatal error carrying the captured stderr; dest is left absent or
// partial, never half-written as a tree Orbit would otherwise trust.
type Fetcher interface {
	Clone(ctx context.Context, url, dest string, disableSSH bool) error
}

// Git shells out to the system git binary.
type Git struct {
	// Binary overrides the git executable to invoke; defaults to "git" on
	// the PATH when empty.
	Binary string
}

// NewGit builds a Git that invokes "git" from the PATH.
func NewGit() *Git {
	return &Git{Binary: "git"}
}

// Clone runs "git clone --depth 1 <url> <dest>". When disableSSH is set, an
// ssh-style or git@ url is rewritten to https first, per spec.
func (f *Git) Clone(ctx context.Context, url, dest string, disableSSH bool) error {
	if disableSSH {
		url = RewriteToHTTPS(url)
	}

	bin := f.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, "clone", "--depth", "1", url, dest)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone %s: %w (%s)", url, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// RewriteToHTTPS rewrites the common SSH-style git remote forms to their
// https:// equivalent. Non-SSH urls pass through unchanged.
func RewriteToHTTPS(url string) string {
	switch {
	case strings.HasPrefix(url, "ssh://git@"):
		return "https://" + strings.TrimPrefix(url, "ssh://git@")
	case strings.HasPrefix(url, "ssh://"):
		return "https://" + strings.TrimPrefix(url, "ssh://")
	case strings.HasPrefix(url, "git@"):
		// git@host:path -> https://host/path
		rest := strings.TrimPrefix(url, "git@")
		if idx := strings.Index(rest, ":"); idx >= 0 {
			return "https://" + rest[:idx] + "/" + rest[idx+1:]
		}
		return "https://" + rest
	default:
		return url
	}
}
