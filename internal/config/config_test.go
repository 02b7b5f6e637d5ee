package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.ResultsMode, convey.ShouldEqual, config.ResultsModeManual)
			convey.So(cfg.ResultsTTL, convey.ShouldEqual, 60*time.Second)
			convey.So(cfg.EntriesTTL, convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.NameColumn, convey.ShouldEqual, 2)
			convey.So(cfg.FirstPickColumn, convey.ShouldEqual, 3)
			convey.So(cfg.EntryPolicy, convey.ShouldEqual, config.EntryPolicyLenient)
			convey.So(cfg.CelebrateTeam, convey.ShouldEqual, "Chicago Bears")
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("When sheet mode has no url", func() {
			cfg.ResultsMode = config.ResultsModeSheet
			err := cfg.Validate()

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "results_url")
			})
		})

		convey.Convey("When the entry policy is unknown", func() {
			cfg.EntryPolicy = "fuzzy"
			err := cfg.Validate()

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "entry_policy")
			})
		})

		convey.Convey("When the name column falls inside the pick columns", func() {
			cfg.NameColumn = 10
			err := cfg.Validate()

			convey.Convey("Then it should be rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "overlap")
			})
		})

		convey.Convey("When several fields are wrong", func() {
			cfg.QueueSize = 0
			cfg.FetchTimeout = 0
			cfg.LogFormat = "xml"
			err := cfg.Validate()

			convey.Convey("Then every problem should be reported", func() {
				convey.So(err.Error(), convey.ShouldContainSubstring, "queue_size")
				convey.So(err.Error(), convey.ShouldContainSubstring, "fetch_timeout")
				convey.So(err.Error(), convey.ShouldContainSubstring, "log_format")
			})
		})
	})
}
