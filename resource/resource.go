// Package resource loads localisation resource files from a locale keyed
// directory tree into an immutable registry. It owns the raw bundle text
// only until a formatting library takes over; message syntax is never
// parsed here.
package resource

import (
	"sort"

	"golang.org/x/text/language"
)

// Bundle is the raw content of one localisation resource file, tied to
// exactly one locale.
type Bundle struct {
	Language language.Tag
	// Path is the file path relative to the loaded root.
	Path string
	// Format is the file extension without the leading dot, e.g. "ftl" or "toml".
	Format string
	// Content is the raw UTF-8 text of the file.
	Content []byte
}

// Skipped records an entry that could not be loaded. Skips are
// diagnostics, not failures; a load with skips still yields a usable
// registry for the locales that did read.
type Skipped struct {
	Path   string
	Reason error
}

// Registry maps locale identifiers to the resource bundles read for them.
// It is built once by Load and never mutated afterwards, so it is safe to
// share across goroutines without locking.
type Registry struct {
	bundles map[string][]Bundle
	tags    []language.Tag
	skipped []Skipped
}

func newRegistry() *Registry {
	return &Registry{bundles: map[string][]Bundle{}}
}

func (r *Registry) add(tag language.Tag, bundles ...Bundle) {
	key := tag.String()
	if _, ok := r.bundles[key]; !ok {
		r.tags = append(r.tags, tag)
	}
	r.bundles[key] = append(r.bundles[key], bundles...)
}

func (r *Registry) skip(path string, reason error) {
	r.skipped = append(r.skipped, Skipped{Path: path, Reason: reason})
}

func (r *Registry) finish() {
	sort.Slice(r.tags, func(i, j int) bool {
		return r.tags[i].String() < r.tags[j].String()
	})
}

// Languages lists every locale that loaded at least one bundle, in
// stable alphabetical order.
func (r *Registry) Languages() []language.Tag {
	out := make([]language.Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Has reports whether the supplied language loaded any bundles. The
// language is matched on its canonical form, so "en_US" and "en-US" are
// the same locale.
func (r *Registry) Has(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	_, ok := r.bundles[tag.String()]
	return ok
}

// Resources returns the bundles loaded for the supplied language, or nil
// if the language is unknown.
func (r *Registry) Resources(lang string) []Bundle {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil
	}
	bundles := r.bundles[tag.String()]
	out := make([]Bundle, len(bundles))
	copy(out, bundles)
	return out
}

// All iterates every bundle in the registry in language order.
func (r *Registry) All(fn func(Bundle) bool) {
	for _, tag := range r.tags {
		for _, b := range r.bundles[tag.String()] {
			if !fn(b) {
				return
			}
		}
	}
}

// Matcher builds a language matcher over the registry's locales, suitable
// for resolving Accept-Language style requests.
func (r *Registry) Matcher() language.Matcher {
	return language.NewMatcher(r.Languages())
}

// Skipped returns the entries that failed to load during this registry's
// construction.
func (r *Registry) Skipped() []Skipped {
	out := make([]Skipped, len(r.skipped))
	copy(out, r.skipped)
	return out
}
