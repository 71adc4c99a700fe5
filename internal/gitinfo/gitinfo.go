// Package gitinfo reads last-updated metadata for content pages from the
// git repository that holds them.
//
// A content root outside any repository is normal (fresh checkout, tarball),
// so every method is safe on a nil *Repo and returns zero values.
package gitinfo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
)

// Repo is an opened repository plus the absolute path of its worktree.
type Repo struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing path, walking up parent directories.
// It returns a git warning error when path is not inside a repository.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").
			WithContext("path", path).
			Build()
	}
	repository, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "no git repository").
			Warning().
			WithContext("path", abs).
			Build()
	}
	wt, err := repository.Worktree()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "repository has no worktree").
			Warning().
			WithContext("path", abs).
			Build()
	}
	return &Repo{repo: repository, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root, or "" for a nil Repo.
func (r *Repo) Root() string {
	if r == nil {
		return ""
	}
	return r.root
}

// Head returns the commit hash HEAD points at, or "" when unavailable.
func (r *Repo) Head() string {
	if r == nil {
		return ""
	}
	ref, err := r.repo.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()
}

// LastUpdated returns the author time of the most recent commit touching
// path. Zero time means the file is untracked or history is unavailable.
func (r *Repo) LastUpdated(path string) time.Time {
	if r == nil {
		return time.Time{}
	}
	rel, ok := r.relative(path)
	if !ok {
		return time.Time{}
	}

	iter, err := r.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}
	}
	defer iter.Close()

	c, err := iter.Next()
	if err != nil {
		return time.Time{}
	}
	return c.Author.When
}

func (r *Repo) relative(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	// The worktree root may itself sit behind a symlink (macOS /var).
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Commits returns the number of commits reachable from HEAD, used for
// build manifests. Zero on a nil Repo or empty history.
func (r *Repo) Commits() int {
	if r == nil {
		return 0
	}
	iter, err := r.repo.Log(&git.LogOptions{})
	if err != nil {
		return 0
	}
	n := 0
	_ = iter.ForEach(func(*object.Commit) error {
		n++
		return nil
	})
	return n
}

// WorkdirHash computes a deterministic hash of the Markdown files under dir
// (hidden files and directories skipped). It does not need a repository.
func WorkdirHash(dir string) (string, error) {
	var fileHashes []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		// #nosec G304 - p comes from WalkDir under dir
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("open %s: %w", p, err)
		}
		h := sha256.New()
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		rel, _ := filepath.Rel(dir, p)
		fileHashes = append(fileHashes, fmt.Sprintf("%s:%s", filepath.ToSlash(rel), hex.EncodeToString(h.Sum(nil))))
		return nil
	})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to hash content").
			WithContext("path", dir).
			Build()
	}

	sort.Strings(fileHashes)
	h := sha256.New()
	for _, fh := range fileHashes {
		h.Write([]byte(fh))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
