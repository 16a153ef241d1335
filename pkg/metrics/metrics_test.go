package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then every collector is registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.recordsExtracted.Add(2)
				So(testutil.ToFloat64(manager.recordsExtracted), ShouldEqual, 2)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_pipeline_records_extracted_total")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "vbrank")
				So(manager.subsystem, ShouldEqual, "pipeline")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording extraction counters", func() {
			before := testutil.ToFloat64(globalManager.rowsProcessed.WithLabelValues("unit-test"))
			RecordRowsProcessed("unit-test", 5)
			RecordRowsRejected("missing_name", 1)
			RecordMalformedNumeric(1)
			RecordRecordsExtracted(4)

			Convey("Then the labelled counter advances by the batch size", func() {
				after := testutil.ToFloat64(globalManager.rowsProcessed.WithLabelValues("unit-test"))
				So(after-before, ShouldEqual, 5)
			})
		})

		Convey("When recording run metrics", func() {
			So(func() {
				RecordSourceFetched("ok")
				RecordSourceFetched("error")
				RecordFetchLatency(12.5)
				RecordRun("ok")
				RecordRunDuration(0.25)
				UpdateLastRun(1700000000)
				RecordFallbackSample()
			}, ShouldNotPanic)

			UpdateRankedTeams(15)
			So(testutil.ToFloat64(globalManager.rankedTeams), ShouldEqual, 15)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/rankings", "GET", "200")
				RecordHTTPRequestDuration("/rankings", "GET", "200", 3.0)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry gathers without error", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given a configured namespace and run duration buckets", t, func() {
		Init(WithNamespace("ops"), WithHistogramBuckets([]float64{0.5, 1, 2}))
		Reset(func() { Init() })

		Convey("When the global registry is gathered", func() {
			RecordRunDuration(0.7)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			var bounds []float64
			found := false
			for _, f := range families {
				if f.GetName() != "ops_pipeline_run_duration_seconds" {
					continue
				}
				found = true
				for _, b := range f.GetMetric()[0].GetHistogram().GetBucket() {
					bounds = append(bounds, b.GetUpperBound())
				}
			}

			Convey("Then metrics carry the namespace and the configured buckets", func() {
				So(found, ShouldBeTrue)
				So(bounds, ShouldContain, 0.5)
				So(bounds, ShouldContain, 2.0)
				So(bounds, ShouldNotContain, 0.005)
			})
		})
	})
}
