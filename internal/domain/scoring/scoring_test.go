package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/scoring"
)

func TestNewEngine(t *testing.T) {
	Convey("Given factor profiles", t, func() {
		Convey("When the profile is empty", func() {
			_, err := scoring.NewEngine(nil)

			Convey("Then construction fails", func() {
				So(err, ShouldWrap, scoring.ErrEmptyProfile)
			})
		})

		Convey("When weights do not sum to 1.0", func() {
			_, err := scoring.NewEngine([]scoring.Factor{
				{Name: "a", Weight: 0.5},
				{Name: "b", Weight: 0.6},
			})

			Convey("Then construction fails", func() {
				So(err, ShouldWrap, scoring.ErrInvalidWeights)
			})
		})

		Convey("When a weight is not positive", func() {
			_, err := scoring.NewEngine([]scoring.Factor{
				{Name: "a", Weight: 1.0},
				{Name: "b", Weight: 0},
			})

			Convey("Then construction fails", func() {
				So(err, ShouldWrap, scoring.ErrInvalidWeights)
			})
		})

		Convey("When the built-in profiles are used", func() {
			_, matchErr := scoring.NewEngine(scoring.MatchProfile())
			_, fallbackErr := scoring.NewEngine(scoring.FallbackProfile())

			Convey("Then both validate", func() {
				So(matchErr, ShouldBeNil)
				So(fallbackErr, ShouldBeNil)
			})
		})
	})
}

func TestEngineScore(t *testing.T) {
	Convey("Given the match profile engine", t, func() {
		engine, err := scoring.NewEngine(scoring.MatchProfile())
		So(err, ShouldBeNil)

		Convey("When every factor is at its maximum", func() {
			score, breakdown := engine.Score(map[string]float64{
				feature.FactorLocation:      1.0,
				feature.FactorTrust:         1.0,
				feature.FactorUrgency:       1.0,
				feature.FactorPreferences:   1.0,
				feature.FactorRandomization: 1.0,
			})

			Convey("Then the score is 1.0 with a full breakdown", func() {
				So(score, ShouldAlmostEqual, 1.0)
				So(breakdown, ShouldHaveLength, 5)
				So(breakdown[feature.FactorLocation], ShouldEqual, 1.0)
			})
		})

		Convey("When factors carry the documented weights", func() {
			score, _ := engine.Score(map[string]float64{
				feature.FactorLocation:      1.0,
				feature.FactorTrust:         0.0,
				feature.FactorUrgency:       0.0,
				feature.FactorPreferences:   0.0,
				feature.FactorRandomization: 0.0,
			})

			Convey("Then location alone contributes 0.30", func() {
				So(score, ShouldAlmostEqual, 0.30)
			})
		})

		Convey("When a factor is missing from the map", func() {
			score, breakdown := engine.Score(map[string]float64{
				feature.FactorLocation: 1.0,
			})

			Convey("Then it contributes zero, not an error", func() {
				So(score, ShouldAlmostEqual, 0.30)
				So(breakdown[feature.FactorTrust], ShouldEqual, 0.0)
			})
		})
	})
}

func TestFallbackProfile(t *testing.T) {
	Convey("Given the fallback engine with pinned jitter", t, func() {
		engine, err := scoring.NewEngine(scoring.FallbackProfile(),
			scoring.WithJitter(scoring.FallbackJitterWeight),
			scoring.WithRandSource(func() float64 { return 0 }),
		)
		So(err, ShouldBeNil)

		Convey("When counts sit exactly at their caps", func() {
			score, breakdown := engine.Score(map[string]float64{
				feature.TrustScore:        1.0,
				feature.LocationProximity: 1.0,
				feature.TimeWaiting:       30,
				feature.DonationHistory:   10,
				feature.CompletedCycles:   5,
			})

			Convey("Then normalization yields a full score", func() {
				So(score, ShouldAlmostEqual, 1.0)
				So(breakdown[feature.TimeWaiting], ShouldEqual, 1.0)
				So(breakdown[feature.DonationHistory], ShouldEqual, 1.0)
				So(breakdown[feature.CompletedCycles], ShouldEqual, 1.0)
			})
		})

		Convey("When counts exceed their caps", func() {
			_, breakdown := engine.Score(map[string]float64{
				feature.TimeWaiting:     300,
				feature.DonationHistory: 100,
				feature.CompletedCycles: 50,
			})

			Convey("Then normalized values stay capped at 1", func() {
				So(breakdown[feature.TimeWaiting], ShouldEqual, 1.0)
				So(breakdown[feature.DonationHistory], ShouldEqual, 1.0)
				So(breakdown[feature.CompletedCycles], ShouldEqual, 1.0)
			})
		})

		Convey("When the jitter draw is at its maximum", func() {
			maxed, err := scoring.NewEngine(scoring.FallbackProfile(),
				scoring.WithJitter(scoring.FallbackJitterWeight),
				scoring.WithRandSource(func() float64 { return 0.999 }),
			)
			So(err, ShouldBeNil)

			score, _ := maxed.Score(map[string]float64{
				feature.TrustScore:        1.0,
				feature.LocationProximity: 1.0,
				feature.TimeWaiting:       30,
				feature.DonationHistory:   10,
				feature.CompletedCycles:   5,
			})

			Convey("Then the total is still clamped to 1", func() {
				So(score, ShouldEqual, 1.0)
			})
		})
	})
}
