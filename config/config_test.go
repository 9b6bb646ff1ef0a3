package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"skillsync-backend/config"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadConfigDefaults(t *testing.T) {
	Convey("Given only a signing key in the environment", t, func() {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SKILLSYNC_CONFIG", "")

		cfg, err := config.LoadConfig()

		Convey("Then defaults are applied", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "8080")
			So(cfg.DatabaseDriver, ShouldEqual, config.DriverPostgres)
			So(cfg.TokenTTL, ShouldEqual, 7*24*time.Hour)
			So(cfg.LLMProvider, ShouldEqual, config.ProviderOpenAI)
			So(cfg.LLMBaseURL, ShouldEqual, "https://api.openai.com/v1")
			So(cfg.LLMModel, ShouldEqual, "gpt-3.5-turbo")
			So(cfg.LLMTemperature, ShouldEqual, 0.2)
			So(cfg.RateLimitWindow(), ShouldEqual, time.Minute)
		})
	})
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SKILLSYNC_CONFIG", "")
		t.Setenv("PORT", "9090")
		t.Setenv("DATABASE_DRIVER", "SQLite")
		t.Setenv("TOKEN_TTL", "2h")
		t.Setenv("LLM_TEMPERATURE", "0.1")
		t.Setenv("LLM_MAX_TOKENS", "256")
		t.Setenv("LLM_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "sk-from-legacy-variable")
		t.Setenv("FRONTEND_URL", "https://skillsync.example.com/")

		cfg, err := config.LoadConfig()

		Convey("Then the environment wins over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Port, ShouldEqual, "9090")
			So(cfg.DatabaseDriver, ShouldEqual, config.DriverSQLite)
			So(cfg.TokenTTL, ShouldEqual, 2*time.Hour)
			So(cfg.LLMTemperature, ShouldEqual, 0.1)
			So(cfg.LLMMaxTokens, ShouldEqual, 256)
			So(cfg.LLMAPIKey, ShouldEqual, "sk-from-legacy-variable")
			So(cfg.FrontendURL, ShouldEqual, "https://skillsync.example.com")
		})
	})
}

func TestLoadConfigFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "skillsync.yaml")
		content := "jwt_secret: from-file\nllm_provider: gemini\nport: \"7070\"\n"
		So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

		t.Setenv("SKILLSYNC_CONFIG", path)
		t.Setenv("JWT_SECRET", "from-env")

		cfg, err := config.LoadConfig()

		Convey("Then file values apply and env still takes precedence", func() {
			So(err, ShouldBeNil)
			So(cfg.JWTSecret, ShouldEqual, "from-env")
			So(cfg.LLMProvider, ShouldEqual, config.ProviderGemini)
			So(cfg.LLMModel, ShouldEqual, "gemini-2.5-flash")
		})
	})
}

func TestConfigValidate(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		cfg := config.New()
		cfg.JWTSecret = "secret"

		Convey("It is valid once a signing key is set", func() {
			So(cfg.Validate(), ShouldBeNil)
		})

		Convey("A missing signing key is rejected", func() {
			cfg.JWTSecret = ""
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("A temperature above the ceiling is rejected", func() {
			cfg.LLMTemperature = 0.7
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("An unknown driver is rejected", func() {
			cfg.DatabaseDriver = "mysql"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("An unknown provider is rejected", func() {
			cfg.LLMProvider = "cohere"
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}
