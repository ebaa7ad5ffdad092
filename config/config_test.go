package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/lingo/config"
)

// ConfigTestSuite covers environment parsing and context carriage.
type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, &ConfigTestSuite{})
}

func (s *ConfigTestSuite) TestFromEnvDefaults() {
	cfg, err := config.FromEnv[config.LocalizationConfig]()
	s.Require().NoError(err, "parsing with no environment set should succeed")

	s.Require().Equal("localization", cfg.GetResourceDir(), "resource dir should default")
	s.Require().Equal("en", cfg.GetDefaultLanguage(), "default language should default")
	s.Require().Empty(cfg.GetExtensions(), "extensions should default to loader defaults")
	s.Require().False(cfg.WatchForChanges(), "watching should be off by default")
	s.Require().Equal("info", cfg.LoggingLevel(), "log level should default")
}

func (s *ConfigTestSuite) TestFromEnvOverrides() {
	s.T().Setenv("LOCALIZATION_DIR", "locale")
	s.T().Setenv("LOCALIZATION_DEFAULT_LANGUAGE", "en-US")
	s.T().Setenv("LOCALIZATION_EXTENSIONS", "ftl,toml")
	s.T().Setenv("LOCALIZATION_WATCH", "true")
	s.T().Setenv("LOG_LEVEL", "debug")

	cfg, err := config.FromEnv[config.LocalizationConfig]()
	s.Require().NoError(err)

	s.Require().Equal("locale", cfg.GetResourceDir())
	s.Require().Equal("en-US", cfg.GetDefaultLanguage())
	s.Require().Equal([]string{"ftl", "toml"}, cfg.GetExtensions())
	s.Require().True(cfg.WatchForChanges())
	s.Require().Equal("debug", cfg.LoggingLevel())
}

func (s *ConfigTestSuite) TestFillEnv() {
	s.T().Setenv("LOCALIZATION_DIR", "translations")

	var cfg config.LocalizationConfig
	s.Require().NoError(config.FillEnv(&cfg))
	s.Require().Equal("translations", cfg.GetResourceDir())
}

func (s *ConfigTestSuite) TestContextCarriage() {
	cfg := &config.LocalizationConfig{ResourceDir: "locale", DefaultLanguage: "sw"}

	ctx := config.ToContext(context.Background(), cfg)

	got := config.FromContext[*config.LocalizationConfig](ctx)
	s.Require().Equal(cfg, got, "configuration should round trip through context")

	missing := config.FromContext[*config.LocalizationConfig](context.Background())
	s.Require().Nil(missing, "absent configuration should come back zero valued")
}
