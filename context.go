package lingo

import (
	"context"
	"net/http"
	"strings"

	"github.com/pitabwire/lingo/internal/common"
)

const ctxKeyLanguage = common.ContextKey("languageKey")

// ToContext adds language to the current supplied context.
func ToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// FromContext extracts language from the supplied context if any exist.
func FromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}

// ToMap stores a language chain in a plain string map, for propagation
// through headers or message attributes.
func ToMap(m map[string]string, lang []string) map[string]string {
	m["lang"] = strings.Join(lang, ",")
	return m
}

// FromMap extracts a language chain stored via ToMap.
func FromMap(m map[string]string) []string {
	lang, ok := m["lang"]
	if !ok {
		return nil
	}
	return strings.Split(lang, ",")
}

// ExtractLanguageFromHTTPRequest obtains the language preference chain of
// a request, the lang form value taking priority over the Accept-Language
// header.
func ExtractLanguageFromHTTPRequest(req *http.Request) []string {
	lang := req.FormValue("lang")

	acceptedLang := ExtractLanguageFromHTTPHeader(req.Header)

	var languages []string
	if lang != "" {
		languages = append(languages, lang)
	}

	return append(languages, acceptedLang...)
}

// ExtractLanguageFromHTTPHeader splits the Accept-Language header into a
// preference chain.
func ExtractLanguageFromHTTPHeader(header http.Header) []string {
	acceptLanguageHeader := header.Get("Accept-Language")
	if acceptLanguageHeader == "" {
		return nil
	}

	parts := strings.Split(acceptLanguageHeader, ",")
	languages := make([]string, 0, len(parts))
	for _, part := range parts {
		lang, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if lang != "" {
			languages = append(languages, lang)
		}
	}
	return languages
}
