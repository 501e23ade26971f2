package i18n

import (
	"embed"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/config"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messages embed.FS

// Data is passed to message templates.
type Data map[string]any

// Service renders the human-readable terminal status of wallet operations.
type Service struct {
	bundle  *i18n.Bundle
	matcher language.Matcher
}

func New(cfg config.Server) (*Service, error) {
	defaultLanguage := cfg.I18n.DefaultLanguage
	if defaultLanguage == language.Und {
		defaultLanguage = language.English
	}

	bundle := i18n.NewBundle(defaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(messages, "messages/*.toml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list message files")
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(messages, file); err != nil {
			return nil, errors.Wrapf(err, "failed to load message file %s", path.Base(file))
		}
	}

	return &Service{
		bundle:  bundle,
		matcher: language.NewMatcher(bundle.LanguageTags()),
	}, nil
}

// Translate returns the message for key in lang. Unknown keys are returned unchanged.
func (s *Service) Translate(key string, lang language.Tag, data ...Data) string {
	localizer := i18n.NewLocalizer(s.bundle, lang.String())

	lc := &i18n.LocalizeConfig{MessageID: key}
	if len(data) > 0 {
		lc.TemplateData = data[0]
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Str("lang", lang.String()).Msg("Failed to translate message")
		return key
	}

	return msg
}

// ParseAcceptLanguage picks the best supported language for an Accept-Language header.
func (s *Service) ParseAcceptLanguage(header string) language.Tag {
	tags := s.bundle.LanguageTags()

	parsed, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(parsed) == 0 {
		return tags[0]
	}

	_, idx, _ := s.matcher.Match(parsed...)

	return tags[idx]
}

func (s *Service) Tags() []language.Tag {
	return s.bundle.LanguageTags()
}
