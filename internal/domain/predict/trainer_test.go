package predict_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/model"
	"github.com/okian/givematch/internal/domain/predict"
)

func sampleAt(created string, outcome float64) model.TrainingSample {
	trust := 70.0
	return model.TrainingSample{
		Donor: model.Donor{
			ID:                  "d",
			Location:            model.Location{City: "Lagos", Region: "Lagos State"},
			TrustScore:          &trust,
			PreferredCategories: []string{"education"},
		},
		Recipient: model.Recipient{
			ID:             "r",
			Location:       model.Location{City: "Lagos", Region: "Lagos State"},
			Category:       "education",
			RequestCreated: created,
		},
		OutcomeScore: outcome,
	}
}

func TestTrainHistorical(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-2 * time.Hour).Format(time.RFC3339)

	Convey("Given a trainer over an in-memory store", t, func() {
		store := &memStore{}
		p := predict.NewPredictor()
		trainer := predict.NewTrainer(store, p,
			predict.WithClock(func() time.Time { return now }),
		)

		Convey("When fewer samples than the floor are submitted", func() {
			samples := make([]model.TrainingSample, 9)
			for i := range samples {
				samples[i] = sampleAt(created, 0.5)
			}
			_, err := trainer.TrainHistorical(context.Background(), samples)

			Convey("Then training is skipped with ErrInsufficientData", func() {
				So(err, ShouldWrap, predict.ErrInsufficientData)
				So(store.saved, ShouldBeNil)
				So(p.Artifact(), ShouldBeNil)
			})
		})

		Convey("When enough samples are submitted", func() {
			samples := make([]model.TrainingSample, 12)
			for i := range samples {
				outcome := 0.3 + float64(i)*0.05
				samples[i] = sampleAt(created, outcome)
			}
			a, err := trainer.TrainHistorical(context.Background(), samples)

			Convey("Then the artifact is fitted, persisted and swapped in", func() {
				So(err, ShouldBeNil)
				So(a.Mode, ShouldEqual, predict.ModeHistorical)
				So(a.Samples, ShouldEqual, 12)
				So(a.FeatureOrder, ShouldResemble, feature.MatchOrder)
				So(a.TrainedAt, ShouldEqual, now)
				So(store.saved, ShouldEqual, a)
				So(p.Artifact(), ShouldEqual, a)
				So(a.Validate(), ShouldBeNil)
			})
		})

		Convey("When malformed samples drop the usable count below the floor", func() {
			samples := make([]model.TrainingSample, 10)
			for i := range samples {
				samples[i] = sampleAt(created, 0.5)
			}
			samples[3] = sampleAt("garbage", 0.5)

			_, err := trainer.TrainHistorical(context.Background(), samples)

			Convey("Then the shortfall is ErrInsufficientData, not a parse failure", func() {
				So(err, ShouldWrap, predict.ErrInsufficientData)
			})
		})

		Convey("When malformed samples remain above the floor", func() {
			samples := make([]model.TrainingSample, 13)
			for i := range samples {
				samples[i] = sampleAt(created, 0.5)
			}
			samples[0] = sampleAt("garbage", 0.5)

			a, err := trainer.TrainHistorical(context.Background(), samples)

			Convey("Then only usable samples count", func() {
				So(err, ShouldBeNil)
				So(a.Samples, ShouldEqual, 12)
			})
		})
	})
}

func TestBootstrap(t *testing.T) {
	Convey("Given a trainer with a reduced synthetic budget", t, func() {
		store := &memStore{}
		p := predict.NewPredictor()
		trainer := predict.NewTrainer(store, p, predict.WithSyntheticSamples(300))

		Convey("When a bootstrap runs", func() {
			a, err := trainer.Bootstrap(context.Background())

			Convey("Then the artifact covers the eight-feature order", func() {
				So(err, ShouldBeNil)
				So(a.Mode, ShouldEqual, predict.ModeSynthetic)
				So(a.Samples, ShouldEqual, 300)
				So(a.FeatureOrder, ShouldResemble, feature.ModelOrder)
				So(a.Validate(), ShouldBeNil)
				So(p.Artifact(), ShouldEqual, a)
			})
		})

		Convey("When two bootstraps run back to back", func() {
			a1, err1 := trainer.Bootstrap(context.Background())
			a2, err2 := trainer.Bootstrap(context.Background())

			Convey("Then the fixed seed reproduces the same model", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(a2.Model.Weights, ShouldResemble, a1.Model.Weights)
				So(a2.Scaler.Means, ShouldResemble, a1.Scaler.Means)
			})
		})
	})
}
