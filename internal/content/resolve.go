// Package content maps navigation targets onto the Markdown files of the
// notes site and inspects those files for titles and fingerprints.
package content

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
)

const indexFile = "index.md"

// Resolve maps an internal target to the Markdown file that serves it,
// following the framework's routing rules:
//
//	/core-java/           -> core-java/index.md
//	/container/docker.md  -> container/docker.md
//	/core-java/m3-oop     -> core-java/m3-oop.md
//	/python/basics.html   -> python/basics.md
//
// Query strings and fragments are ignored. The file must exist.
func Resolve(root, target string) (string, error) {
	rel, err := targetFile(target)
	if err != nil {
		return "", err
	}

	full := filepath.Join(root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFoundError("target does not resolve to a page").
				WithContext("target", target).
				WithContext("path", full).
				Build()
		}
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to stat page").
			WithContext("target", target).
			Build()
	}
	if info.IsDir() {
		return "", errors.NotFoundError("target resolves to a directory").
			WithContext("target", target).
			WithContext("path", full).
			Build()
	}
	return full, nil
}

// targetFile returns the slash-separated file path, relative to the content
// root, that serves target.
func targetFile(target string) (string, error) {
	t := target
	if i := strings.IndexAny(t, "?#"); i >= 0 {
		t = t[:i]
	}
	if !strings.HasPrefix(t, "/") {
		return "", errors.ValidationError("internal target must start with '/'").
			WithContext("target", target).
			Build()
	}

	// Cleaning a rooted path drops leading "..", so rel stays inside root.
	rel := strings.TrimPrefix(path.Clean(t), "/")
	switch {
	case strings.HasSuffix(t, "/"):
		return path.Join(rel, indexFile), nil
	case strings.HasSuffix(rel, ".md"):
		return rel, nil
	case strings.HasSuffix(rel, ".html"):
		return strings.TrimSuffix(rel, ".html") + ".md", nil
	default:
		return rel + ".md", nil
	}
}
