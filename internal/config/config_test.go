package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/vbrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 4)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.FetchBackoff(), convey.ShouldEqual, 200*time.Millisecond)
			convey.So(cfg.FallbackSample, convey.ShouldBeTrue)
			convey.So(cfg.Sources, convey.ShouldBeEmpty)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "vbrank")
			convey.So(cfg.RunDurationBuckets, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When concurrency is zero", func() {
			cfg.FetchConcurrency = 0
			err := cfg.Validate()

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "fetch_concurrency")
			})
		})

		convey.Convey("When a source sets both url and path", func() {
			cfg.Sources = []config.Source{{Label: "a", URL: "http://x/a.csv", Path: "a.csv"}}
			err := cfg.Validate()

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sources[0]")
			})
		})

		convey.Convey("When a source sets neither url nor path", func() {
			cfg.Sources = []config.Source{{Label: "a"}}

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the list limit is zero", func() {
			cfg.MaxListLimit = 0

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When run duration buckets are not increasing", func() {
			cfg.RunDurationBuckets = []float64{0.5, 0.5, 2}

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When run duration buckets are increasing", func() {
			cfg.RunDurationBuckets = []float64{0.5, 1, 2}

			convey.Convey("Then they are accepted", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the metrics namespace is empty", func() {
			cfg.MetricsNamespace = ""

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
