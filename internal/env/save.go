// Where: internal/env/save.go
// What: Render template targets into the environment directory.
// Why: Produce <root>/env/<destination>/<source>/... for every registered target.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/poruru-code/legacyfrontends/internal/hooks"
	"github.com/poruru-code/legacyfrontends/internal/meta"
)

var ignoredNames = map[string]struct{}{
	".git":        {},
	"__pycache__": {},
	"partials":    {},
	".DS_Store":   {},
}

var ignoredSuffixes = []string{".pyc", "~", ".swp"}

var binaryExtensions = map[string]struct{}{
	".ico": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".ttf": {}, ".otf": {}, ".woff": {}, ".woff2": {}, ".eot": {},
	".gz": {}, ".tgz": {}, ".zip": {}, ".jar": {},
}

// Dir returns the environment directory under root.
func Dir(root string) string {
	return filepath.Join(root, meta.EnvDir)
}

// Save renders every target into the environment directory under root and
// returns the number of files written.
func (r *Renderer) Save(root string, targets []hooks.TemplateTarget) (int, error) {
	written := 0
	for _, target := range targets {
		n, err := r.saveTarget(root, target)
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}

func (r *Renderer) saveTarget(root string, target hooks.TemplateTarget) (int, error) {
	source := path.Clean(target.Source)
	written := 0
	found := false
	for _, tr := range r.roots {
		if _, err := fs.Stat(tr.FS, source); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return written, fmt.Errorf("stat %s in %s: %w", source, tr.Name, err)
		}
		found = true
		err := fs.WalkDir(tr.FS, source, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if Ignored(name) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			dest := filepath.Join(Dir(root), target.Destination, filepath.FromSlash(name))
			if err := r.saveFile(tr.FS, name, dest); err != nil {
				return err
			}
			written++
			return nil
		})
		if err != nil {
			return written, fmt.Errorf("render target %s: %w", source, err)
		}
	}
	if !found {
		return written, fmt.Errorf("%w: %s", ErrTemplateNotFound, source)
	}
	return written, nil
}

func (r *Renderer) saveFile(fsys fs.FS, name, dest string) error {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if !IsBinary(name) {
		rendered, err := r.RenderString(name, string(content))
		if err != nil {
			return err
		}
		content = []byte(rendered)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create env dir: %w", err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// Ignored reports whether a template path is skipped during rendering.
func Ignored(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if _, ok := ignoredNames[part]; ok {
			return true
		}
	}
	base := path.Base(name)
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// IsBinary reports whether a template path is copied without rendering.
func IsBinary(name string) bool {
	_, ok := binaryExtensions[strings.ToLower(path.Ext(name))]
	return ok
}
