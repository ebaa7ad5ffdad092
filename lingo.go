// Package lingo performs runtime loading of localisation resources from a
// locale keyed directory tree. It reads the files, keeps them in an
// immutable registry and hands the text over to a formatting library;
// message syntax itself is never parsed here.
package lingo

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/pitabwire/lingo/config"
	"github.com/pitabwire/lingo/internal/watch"
	"github.com/pitabwire/lingo/resource"
)

// DefaultResourceDir is where resources load from when no directory is
// configured.
const DefaultResourceDir = "localization"

// DefaultLanguage is the fallback language when none is configured.
const DefaultLanguage = "en"

// Localiser loads localisation resources once and serves read only
// lookups afterwards. It is safe for concurrent use; Reload swaps the
// underlying registry atomically.
type Localiser struct {
	resourceDir     string
	defaultLanguage string
	extensions      []string
	fsys            fs.FS
	watchChanges    bool

	defaultTag language.Tag
	state      atomic.Pointer[localiserState]
	watcher    *watch.Watcher
}

type localiserState struct {
	registry *resource.Registry
	bundle   *i18n.Bundle
	matcher  language.Matcher
	// matchTags holds the matcher's tags in order, default language first,
	// so match indexes resolve back to registry locales.
	matchTags []language.Tag
}

// Option configures a Localiser before its first load.
type Option func(ctx context.Context, l *Localiser)

// WithResourceDir sets the directory localisation resources load from.
func WithResourceDir(dir string) Option {
	return func(_ context.Context, l *Localiser) {
		l.resourceDir = dir
	}
}

// WithDefaultLanguage sets the language used when a requested locale is
// not available.
func WithDefaultLanguage(lang string) Option {
	return func(_ context.Context, l *Localiser) {
		l.defaultLanguage = lang
	}
}

// WithExtensions overrides the resource file extensions the loader
// recognises.
func WithExtensions(extensions ...string) Option {
	return func(_ context.Context, l *Localiser) {
		l.extensions = extensions
	}
}

// WithFS loads resources from the supplied filesystem instead of the
// resource directory, which also serves embedded resource trees. Watching
// is unavailable in this mode.
func WithFS(fsys fs.FS) Option {
	return func(_ context.Context, l *Localiser) {
		l.fsys = fsys
	}
}

// WithWatch keeps the resource directory under watch and reloads the
// registry whenever it changes.
func WithWatch() Option {
	return func(_ context.Context, l *Localiser) {
		l.watchChanges = true
	}
}

// WithConfig applies a configuration object, typically parsed from the
// environment.
func WithConfig(cfg config.ConfigurationLocalization) Option {
	return func(_ context.Context, l *Localiser) {
		if cfg.GetResourceDir() != "" {
			l.resourceDir = cfg.GetResourceDir()
		}
		if cfg.GetDefaultLanguage() != "" {
			l.defaultLanguage = cfg.GetDefaultLanguage()
		}
		if len(cfg.GetExtensions()) > 0 {
			l.extensions = cfg.GetExtensions()
		}
		l.watchChanges = cfg.WatchForChanges()
	}
}

// New creates a Localiser and performs the initial load. The resource
// root has to exist and be readable; individual unreadable entries are
// skipped and surfaced through Registry().Skipped().
func New(ctx context.Context, opts ...Option) (*Localiser, error) {
	l := &Localiser{
		resourceDir:     DefaultResourceDir,
		defaultLanguage: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(ctx, l)
	}

	defaultTag, err := language.Parse(l.defaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("default language %q: %w", l.defaultLanguage, err)
	}
	l.defaultTag = defaultTag

	if err = l.Reload(ctx); err != nil {
		return nil, err
	}

	if l.watchChanges && l.fsys == nil {
		if err = l.startWatch(ctx); err != nil {
			return nil, fmt.Errorf("watching %q: %w", l.resourceDir, err)
		}
	}

	return l, nil
}

// NewFromEnv creates a Localiser configured from environment variables,
// with any supplied options applied on top.
func NewFromEnv(ctx context.Context, opts ...Option) (*Localiser, error) {
	cfg, err := config.FromEnv[config.LocalizationConfig]()
	if err != nil {
		return nil, fmt.Errorf("localisation config from environment: %w", err)
	}

	return New(ctx, append([]Option{WithConfig(&cfg)}, opts...)...)
}

// Reload re-reads the resource tree and swaps the registry atomically.
// On failure the previous registry stays in place untouched.
func (l *Localiser) Reload(ctx context.Context) error {
	var loaderOpts []resource.Option
	if len(l.extensions) > 0 {
		loaderOpts = append(loaderOpts, resource.WithExtensions(l.extensions...))
	}

	var registry *resource.Registry
	var err error
	if l.fsys != nil {
		registry, err = resource.LoadFS(ctx, l.fsys, loaderOpts...)
	} else {
		registry, err = resource.Load(ctx, l.resourceDir, loaderOpts...)
	}
	if err != nil {
		return err
	}

	matcher, matchTags := l.buildMatcher(registry)
	l.state.Store(&localiserState{
		registry:  registry,
		bundle:    l.buildBundle(ctx, registry),
		matcher:   matcher,
		matchTags: matchTags,
	})
	return nil
}

// buildBundle feeds every parseable resource into the formatting library.
// Fluent resources stay raw in the registry for an external formatter.
func (l *Localiser) buildBundle(ctx context.Context, registry *resource.Registry) *i18n.Bundle {
	bundle := i18n.NewBundle(l.defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)

	registry.All(func(b resource.Bundle) bool {
		switch b.Format {
		case "toml", "json", "yaml", "yml":
			// the synthetic name carries the locale for files whose own
			// name does not, e.g. resources inside a locale directory
			name := fmt.Sprintf("messages.%s.%s", b.Language.String(), b.Format)
			if _, err := bundle.ParseMessageFileBytes(b.Content, name); err != nil {
				util.Log(ctx).WithError(err).WithField("path", b.Path).
					Warn("could not parse localisation resource")
			}
		}
		return true
	})

	return bundle
}

// buildMatcher puts the default language first so unmatched requests
// resolve to it.
func (l *Localiser) buildMatcher(registry *resource.Registry) (language.Matcher, []language.Tag) {
	tags := []language.Tag{l.defaultTag}
	for _, tag := range registry.Languages() {
		if tag != l.defaultTag {
			tags = append(tags, tag)
		}
	}
	return language.NewMatcher(tags), tags
}

func (l *Localiser) startWatch(ctx context.Context) error {
	w, err := watch.New(l.resourceDir)
	if err != nil {
		return err
	}

	w.OnChange(func() {
		if err0 := l.Reload(ctx); err0 != nil {
			util.Log(ctx).WithError(err0).WithField("dir", l.resourceDir).
				Error("could not reload localisation resources")
		}
	})

	if err = w.Start(ctx); err != nil {
		_ = w.Close()
		return err
	}

	l.watcher = w
	return nil
}

// Close releases the directory watcher if one is running.
func (l *Localiser) Close(_ context.Context) error {
	if l.watcher == nil {
		return nil
	}
	return l.watcher.Close()
}

// Registry exposes the currently loaded locale registry, including raw
// bundle content and skip diagnostics.
func (l *Localiser) Registry() *resource.Registry {
	return l.state.Load().registry
}

// Bundle exposes the formatting library's bundle built from the loaded
// resources.
func (l *Localiser) Bundle() *i18n.Bundle {
	return l.state.Load().bundle
}

// Languages lists every loaded locale.
func (l *Localiser) Languages() []language.Tag {
	return l.state.Load().registry.Languages()
}

// DefaultLanguage returns the configured fallback language.
func (l *Localiser) DefaultLanguage() language.Tag {
	return l.defaultTag
}

// ResolveLanguage picks the best loaded locale for the requested language
// chain, falling back to the default language when nothing matches.
func (l *Localiser) ResolveLanguage(languages ...string) language.Tag {
	st := l.state.Load()
	// resolve through the match index; the matched tag itself may carry
	// region detail from the request that the registry does not have
	_, idx := language.MatchStrings(st.matcher, languages...)
	return st.matchTags[idx]
}
