package config_test

import (
	"errors"
	"os"
	"testing"

	"github.com/okian/vbrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load("")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.FetchRetries, convey.ShouldEqual, 2)
				convey.So(cfg.MaxListLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("VBRANK_ADDR", ":8080")
			_ = os.Setenv("VBRANK_FETCH_CONCURRENCY", "8")
			_ = os.Setenv("VBRANK_FALLBACK_SAMPLE", "false")
			_ = os.Setenv("VBRANK_INDEX_URL", "http://example.com/data")

			cfg, err := config.Load("")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.FallbackSample, convey.ShouldBeFalse)
				convey.So(cfg.IndexURL, convey.ShouldEqual, "http://example.com/data")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
output_path: "out/ranking.json"
fetch_retries: 5
sources:
  - label: "2023 전국대회"
    url: "http://example.com/2023.csv"
  - label: "local"
    path: "testdata/local.csv"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.OutputPath, convey.ShouldEqual, "out/ranking.json")
				convey.So(cfg.FetchRetries, convey.ShouldEqual, 5)
				convey.So(cfg.Sources, convey.ShouldHaveLength, 2)
				convey.So(cfg.Sources[0].Label, convey.ShouldEqual, "2023 전국대회")
				convey.So(cfg.Sources[1].Path, convey.ShouldEqual, "testdata/local.csv")
				convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 4) // from defaults
			})
		})

		convey.Convey("When the file path comes from VBRANK_CONFIG", func() {
			tmpFile := createTempConfigFile(`addr: ":7070"`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("VBRANK_CONFIG", tmpFile)

			cfg, err := config.Load("")

			convey.Convey("Then the file is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
fetch_retries: 5
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("VBRANK_ADDR", ":8080")

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FetchRetries, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.Load("/nonexistent/vbrank.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("VBRANK_ADDR", "")

			cfg, err := config.Load("")

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("VBRANK_FETCH_RETRIES", "not_a_number")

			cfg, err := config.Load("")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"VBRANK_CONFIG",
		"VBRANK_ADDR",
		"VBRANK_FETCH_CONCURRENCY",
		"VBRANK_FETCH_RETRIES",
		"VBRANK_FALLBACK_SAMPLE",
		"VBRANK_INDEX_URL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "vbrank-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
