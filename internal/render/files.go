package render

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/notenav/internal/foundation/errors"
	"git.home.luguber.info/inful/notenav/internal/logfields"
	"git.home.luguber.info/inful/notenav/internal/metrics"
	"git.home.luguber.info/inful/notenav/internal/nav"
)

// Output file names written by WriteAll.
const (
	VitePressFile = "vitepress.json"
	HugoMenusFile = "hugo-menus.yaml"
)

type renderer struct {
	file string
	fn   func(nav.Site) ([]byte, error)
}

var renderers = []renderer{
	{VitePressFile, VitePress},
	{HugoMenusFile, HugoMenus},
}

// WriteAll renders every output format into dir and returns the sha256 of
// each written file keyed by file name. rec may be nil.
func WriteAll(dir string, site nav.Site, rec metrics.Recorder) (map[string]string, error) {
	rec = metrics.OrNoop(rec)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").WithContext("path", dir).Build()
	}
	hashes := make(map[string]string, len(renderers))
	for _, r := range renderers {
		start := time.Now()
		data, err := r.fn(site)
		if err != nil {
			return nil, err
		}
		rec.ObserveRenderDuration(strings.TrimSuffix(r.file, filepath.Ext(r.file)), time.Since(start))
		path := filepath.Join(dir, r.file)
		if err := WriteFile(path, data); err != nil {
			return nil, err
		}
		hashes[r.file] = fmt.Sprintf("%x", sha256.Sum256(data))
		slog.Debug("Wrote framework config", logfields.File(r.file), logfields.Path(path))
	}
	return hashes, nil
}

// WriteFile writes through a temp file in the same directory and renames it
// into place so a watching framework never reads a partial file.
func WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create temp file").WithContext("path", path).Build()
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").WithContext("path", path).Build()
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to close output").WithContext("path", path).Build()
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to chmod output").WithContext("path", path).Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to move output into place").WithContext("path", path).Build()
	}
	return nil
}
