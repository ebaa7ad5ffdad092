package resource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/pitabwire/util"
	"golang.org/x/text/language"
)

// DefaultExtensions are the resource file extensions considered when no
// override is supplied.
var DefaultExtensions = []string{"ftl", "toml", "json", "yaml", "yml"}

// ErrEmptyResource marks a resource file that read fine but had no content.
// Empty files are excluded from the registry rather than stored as empty
// bundles.
var ErrEmptyResource = errors.New("resource file is empty")

type loaderOptions struct {
	extensions map[string]bool
}

// Option configures a load operation.
type Option func(*loaderOptions)

// WithExtensions overrides the file extensions recognised as localisation
// resources. Extensions are supplied without the leading dot.
func WithExtensions(extensions ...string) Option {
	return func(o *loaderOptions) {
		o.extensions = map[string]bool{}
		for _, ext := range extensions {
			o.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
		}
	}
}

// Load builds a registry from the directory at root. The root has to exist
// and be a readable directory, anything else fails the whole load.
// Individual entries that cannot be read are skipped and surfaced through
// Registry.Skipped instead of failing the load.
func Load(ctx context.Context, root string, opts ...Option) (*Registry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("localisation root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("localisation root %q is not a directory", root)
	}

	return LoadFS(ctx, os.DirFS(root), opts...)
}

// LoadFS is Load over an arbitrary fs.FS, which also serves embedded
// resource trees.
func LoadFS(ctx context.Context, fsys fs.FS, opts ...Option) (*Registry, error) {
	o := &loaderOptions{}
	WithExtensions(DefaultExtensions...)(o)
	for _, opt := range opts {
		opt(o)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading localisation root: %w", err)
	}

	reg := newRegistry()
	for _, entry := range entries {
		name := entry.Name()

		if entry.IsDir() {
			tag, err0 := language.Parse(name)
			if err0 != nil {
				// not a locale directory
				continue
			}
			loadLocaleDir(ctx, fsys, name, tag, o, reg)
			continue
		}

		ext := extensionOf(name)
		if !o.extensions[ext] {
			continue
		}
		tag, ok := localeFromStem(strings.TrimSuffix(name, path.Ext(name)))
		if !ok {
			continue
		}

		bundle, err0 := readBundle(fsys, name, tag, ext)
		if err0 != nil {
			util.Log(ctx).WithError(err0).WithField("path", name).
				Warn("skipping unreadable localisation resource")
			reg.skip(name, err0)
			continue
		}
		reg.add(tag, bundle)
	}

	reg.finish()
	return reg, nil
}

// loadLocaleDir walks a locale directory recursively; every recognised
// file inside it belongs to the same locale's bundle set.
func loadLocaleDir(ctx context.Context, fsys fs.FS, dir string, tag language.Tag, o *loaderOptions, reg *Registry) {
	_ = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			util.Log(ctx).WithError(err).WithField("path", p).
				Warn("skipping unreadable localisation entry")
			reg.skip(p, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := extensionOf(d.Name())
		if !o.extensions[ext] {
			return nil
		}

		bundle, err := readBundle(fsys, p, tag, ext)
		if err != nil {
			util.Log(ctx).WithError(err).WithField("path", p).
				Warn("skipping unreadable localisation resource")
			reg.skip(p, err)
			return nil
		}
		reg.add(tag, bundle)
		return nil
	})
}

func readBundle(fsys fs.FS, p string, tag language.Tag, ext string) (Bundle, error) {
	content, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Bundle{}, err
	}
	if len(content) == 0 {
		return Bundle{}, ErrEmptyResource
	}

	return Bundle{
		Language: tag,
		Path:     p,
		Format:   ext,
		Content:  content,
	}, nil
}

func extensionOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

// localeFromStem derives a locale from a file name stem. Plain stems such
// as "en-US" parse directly; prefixed names such as "messages.en" carry
// the locale in their last segment.
func localeFromStem(stem string) (language.Tag, bool) {
	tag, err := language.Parse(stem)
	if err == nil {
		return tag, true
	}

	if i := strings.LastIndex(stem, "."); i >= 0 {
		tag, err = language.Parse(stem[i+1:])
		if err == nil {
			return tag, true
		}
	}

	return language.Tag{}, false
}
