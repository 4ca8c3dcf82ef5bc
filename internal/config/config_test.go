package config_test

import (
	"errors"
	"testing"

	"github.com/okian/rolematch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DefaultTopN, convey.ShouldEqual, 5)
			convey.So(cfg.DefaultAlpha, convey.ShouldEqual, 0.6)
			convey.So(cfg.MaxTopN, convey.ShouldEqual, 50)
			convey.So(cfg.BatchConcurrency, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.CatalogLoadTimeout().Seconds(), convey.ShouldEqual, 30)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"zero top_n", func(c *config.Config) { c.DefaultTopN = 0 }},
			{"negative alpha", func(c *config.Config) { c.DefaultAlpha = -0.1 }},
			{"max below default", func(c *config.Config) { c.MaxTopN = 1 }},
			{"zero batch", func(c *config.Config) { c.MaxBatch = 0 }},
			{"zero concurrency", func(c *config.Config) { c.BatchConcurrency = 0 }},
			{"zero min_df", func(c *config.Config) { c.MinDF = 0 }},
			{"negative ttl", func(c *config.Config) { c.CacheTTLSec = -1 }},
			{"unknown driver", func(c *config.Config) { c.CatalogDriver = "mongo" }},
			{"csv without path", func(c *config.Config) { c.CatalogPath = "" }},
			{"postgres without dsn", func(c *config.Config) { c.CatalogDriver = config.DriverPostgres }},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When origins are listed with spaces", func() {
			cfg.CORSAllowOrigins = " https://a.example , ,https://b.example"

			convey.Convey("Then they are split and trimmed", func() {
				convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})
	})
}
