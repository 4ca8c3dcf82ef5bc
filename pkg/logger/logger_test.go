package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				l := Get()
				So(l, ShouldNotBeNil)
				So(func() { l.Info(context.Background(), "hello", String("k", "v")) }, ShouldNotPanic)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := InitWithOptions(Options{Format: "xml"})

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithOptions(Options{Format: "json", Output: &buf}), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("scorer").Info(ctx, "recommended",
				Strings("roles", []string{"Data Analyst"}),
				Int("top_n", 5),
				Float64("alpha", 0.6),
				Bool("cached", false),
				Duration("took", time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then the record carries every field and the logger name", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "recommended")
				So(rec["logger"], ShouldEqual, "scorer")
				So(rec["top_n"], ShouldEqual, float64(5))
				So(rec["alpha"], ShouldEqual, 0.6)
				So(rec["cached"], ShouldEqual, false)
				So(rec["error"], ShouldEqual, "boom")
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level filters debug", func() {
			So(SetLevelString("info"), ShouldBeNil)
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible")

			Convey("Then the entry is written", func() {
				So(strings.Contains(buf.String(), "visible"), ShouldBeTrue)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " Error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop().Named("x")

		Convey("Then logging does not panic", func() {
			So(func() {
				l.Info(context.Background(), "a")
				l.Warn(context.Background(), "b")
				l.Error(context.Background(), "c")
				l.Debug(context.Background(), "d")
			}, ShouldNotPanic)
		})
	})
}
