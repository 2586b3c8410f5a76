package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with an isolated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("Then all metric families should be registered", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// Gauges and histograms only appear after first use; the
				// counters registered here are enough to prove wiring.
				So(families, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording through the package functions", func() {
			RecordMatchRequest()
			RecordCandidatesScored(3)
			RecordCandidatesSkipped(1)
			RecordMatchLatency(12.5)
			RecordPrediction("model")
			RecordPrediction("fallback")
			RecordTrainingRun("historical", "completed")
			RecordTrainingDuration(250)
			UpdateArtifactInfo("synthetic", 1000, time.Now())
			RecordFraudAnalysis("high")
			RecordFraudCacheHit()
			UpdateFraudCacheSize(10)
			RecordHTTPRequest("match", "POST", "200")
			RecordHTTPRequestDuration("match", "POST", "200", 3.2)
			RecordErrorByEndpoint("match", "POST", "client_error")
			RecordErrorByType("client_error", "medium")
			RecordErrorLatency("http", "client_error", 3.2)
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(42)
			RecordSystemGCPauseTime(0.5)

			Convey("Then the custom registry gathers without error", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
