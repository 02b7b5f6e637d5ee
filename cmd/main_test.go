package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/clparker78/straight-razor-draft/internal/app"
	"github.com/clparker78/straight-razor-draft/internal/config"
	"github.com/clparker78/straight-razor-draft/internal/domain/types"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
	"github.com/clparker78/straight-razor-draft/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const entriesCSV = `Timestamp,Email,Name,Pick 1,Pick 2,Pick 3
2024-04-25,sam@example.com,Sam,Caleb,Jayden,Drake
2024-04-25,alex@example.com,Alex,Jayden,Caleb,Drake
2024-04-25,blank@example.com,,Caleb,Jayden,Drake
`

func writeEntries(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entries.csv")
	if err := os.WriteFile(path, []byte(entriesCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitUntil(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestConfigFromEnvironment(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("DRAFT_ADDR", ":8181")
		t.Setenv("DRAFT_QUEUE_SIZE", "4")
		t.Setenv("DRAFT_RESULTS_MODE", "manual")
		t.Setenv("DRAFT_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 4)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given the full handler over a manual mode service", t, func() {
		cfg := config.New()
		cfg.EntriesPath = writeEntries(t)
		cfg.RefreshInterval = 0
		cfg.CORSAllowedOrigins = []string{"https://board.example"}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		svc := app.New(app.WithConfig(cfg), app.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newHandler(ctx, cfg, svc, logger.Nop()))
		defer srv.Close()

		convey.Convey("When a pick is entered over HTTP", func() {
			res, err := http.Post(srv.URL+"/picks", "application/json",
				strings.NewReader(`{"pick":1,"player":"Caleb","team":"Chicago Bears"}`))
			convey.So(err, convey.ShouldBeNil)
			_ = res.Body.Close()
			convey.So(res.StatusCode, convey.ShouldEqual, http.StatusAccepted)

			convey.Convey("Then the leaderboard should pick it up", func() {
				var rows []types.Standing
				ok := waitUntil(func() bool {
					r, err := http.Get(srv.URL + "/leaderboard")
					if err != nil {
						return false
					}
					defer r.Body.Close()
					rows = nil
					_ = json.NewDecoder(r.Body).Decode(&rows)
					return len(rows) == 2 && rows[0].Score > 0
				})
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(rows[0].Participant, convey.ShouldEqual, "Sam")
				convey.So(rows[0].Score, convey.ShouldEqual, 32)
				convey.So(rows[1].Participant, convey.ShouldEqual, "Alex")
				convey.So(rows[1].Score, convey.ShouldEqual, 31)
			})

			convey.Convey("And the latest pick should be celebrated", func() {
				ok := waitUntil(func() bool {
					r, err := http.Get(srv.URL + "/picks/latest")
					if err != nil {
						return false
					}
					defer r.Body.Close()
					return r.StatusCode == http.StatusOK
				})
				convey.So(ok, convey.ShouldBeTrue)

				r, err := http.Get(srv.URL + "/picks/latest")
				convey.So(err, convey.ShouldBeNil)
				defer r.Body.Close()
				var lp types.LatestPick
				convey.So(json.NewDecoder(r.Body).Decode(&lp), convey.ShouldBeNil)
				convey.So(lp.Celebrate, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When requesting through a browser origin", func() {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/commentary", nil)
			req.Header.Set("Origin", "https://board.example")
			res, err := http.DefaultClient.Do(req)
			convey.So(err, convey.ShouldBeNil)
			defer res.Body.Close()

			convey.Convey("Then CORS and request id headers should be set", func() {
				convey.So(res.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(res.Header.Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://board.example")
				convey.So(res.Header.Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When loading the dashboard and docs", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml", "/healthz"} {
				res, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = res.Body.Close()
				convey.So(res.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := app.New(app.WithLogger(logger.Nop()), app.WithRefreshInterval(0))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then the updaters should run without panicking", func() {
			convey.So(func() {
				updateSystemMetrics()
				updateServiceMetrics(svc)
			}, convey.ShouldNotPanic)
			convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
		})
	})
}
