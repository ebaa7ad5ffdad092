package lingo

import (
	"context"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
)

// Translate performs a quick translation based on the supplied message id.
func (l *Localiser) Translate(ctx context.Context, request any, messageID string) string {
	return l.TranslateWithMap(ctx, request, messageID, map[string]any{})
}

// TranslateWithMap performs a translation with variables based on the supplied message id.
func (l *Localiser) TranslateWithMap(
	ctx context.Context,
	request any,
	messageID string,
	variables map[string]any,
) string {
	return l.TranslateWithMapAndCount(ctx, request, messageID, variables, 1)
}

// TranslateWithMapAndCount performs a translation with variables based on the supplied message id and can pluralize.
// The request may be a language string, a []string language chain, a
// context carrying languages or an *http.Request. A requested locale that
// never loaded falls back to the default language.
func (l *Localiser) TranslateWithMapAndCount(
	ctx context.Context,
	request any,
	messageID string,
	variables map[string]any,
	count int,
) string {
	var languageSlice []string

	switch v := request.(type) {
	case *http.Request:
		languageSlice = ExtractLanguageFromHTTPRequest(v)

	case context.Context:
		languageSlice = FromContext(v)

	case string:
		if v != "" {
			languageSlice = []string{v}
		} else {
			languageSlice = FromContext(ctx)
		}

	case []string:
		languageSlice = v

	case nil:
		languageSlice = FromContext(ctx)

	default:
		logger := util.Log(ctx).WithField("messageID", messageID).WithField("variables", variables)
		logger.Warn("TranslateWithMapAndCount -- no valid request object found, use string, []string, context or http.Request")
		return messageID
	}

	// the slice may be shared with the caller's context, so extend a copy
	chain := make([]string, 0, len(languageSlice)+1)
	chain = append(chain, languageSlice...)
	chain = append(chain, l.defaultLanguage)

	localizer := i18n.NewLocalizer(l.Bundle(), chain...)

	transVersion, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      messageID,
		DefaultMessage: &i18n.Message{ID: messageID},
		TemplateData:   variables,
		PluralCount:    count,
	})

	if err != nil {
		logger := util.Log(ctx).WithError(err)
		logger.Error("TranslateWithMapAndCount -- could not perform translation")
	}
	if transVersion == "" {
		// no translation and no default template content
		return messageID
	}

	return transVersion
}
