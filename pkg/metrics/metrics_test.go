package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors", func() {
				So(manager, ShouldNotBeNil)
				manager.participants.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom naming options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("board"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)
			manager.participants.Set(7)

			Convey("Then metric names should carry the namespace and subsystem", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_board_participants" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When ignoring empty options", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "draft")
				So(manager.subsystem, ShouldEqual, "leaderboard")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording refresh and source metrics", func() {
			before := testutil.ToFloat64(globalManager.refreshCycles.WithLabelValues("manual"))
			RecordRefresh("manual", 12, 1_700_000_000)
			RecordSourceLoad("results", "loaded", 3)
			RecordSourceLoad("entries", "unavailable", 4)
			RecordSourceCacheHit("results")

			Convey("Then counters should move", func() {
				So(testutil.ToFloat64(globalManager.refreshCycles.WithLabelValues("manual")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.lastRefreshUnix), ShouldEqual, 1_700_000_000)
				So(testutil.ToFloat64(globalManager.sourceLoads.WithLabelValues("entries", "unavailable")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating contest gauges", func() {
			UpdatePicksReported(12)
			UpdateParticipants(40)

			Convey("Then gauges should hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.picksReported), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.participants), ShouldEqual, 40)
			})
		})

		Convey("When recording the rest of the helpers", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordRefreshCoalesced()
					RecordEntriesRejected(2)
					RecordLeaderChange()
					RecordCommentaryLine("new_leader")
					RecordManualPick("accepted")
					UpdateQueueSize(1)
					UpdateQueueCapacity(8)
					RecordHTTPRequest("leaderboard", "GET", "200")
					RecordHTTPRequestDuration("leaderboard", "GET", "200", 1.5)
					RecordErrorByEndpoint("rank", "GET", "not_found")
					RecordErrorByComponent("source", "unavailable")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When exposing the registry", func() {
			UpdateParticipants(5)
			count, err := testutil.GatherAndCount(GetRegistry(), "draft_leaderboard_participants")

			Convey("Then it should contain the service metrics", func() {
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
				So(strings.HasPrefix("draft_leaderboard_participants", "draft_"), ShouldBeTrue)
			})
		})
	})
}
