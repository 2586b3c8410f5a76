package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/givematch/internal/adapters/repository"
	"github.com/okian/givematch/internal/domain/feature"
	"github.com/okian/givematch/internal/domain/predict"
)

func validArtifact() *predict.Artifact {
	order := append([]string(nil), feature.MatchOrder...)
	n := len(order)
	weights := make([]float64, n)
	means := make([]float64, n)
	stds := make([]float64, n)
	for i := range stds {
		weights[i] = 0.1
		stds[i] = 1
	}
	return &predict.Artifact{
		Version:      predict.ArtifactVersion,
		Mode:         predict.ModeHistorical,
		FeatureOrder: order,
		Model:        &predict.Regression{Intercept: 0.2, Weights: weights},
		Scaler:       &predict.Scaler{Means: means, Stds: stds},
		Samples:      42,
		TrainedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file store in a fresh directory", t, func() {
		dir := t.TempDir()
		store := repository.NewFileStore(dir)

		Convey("When no artifact was ever saved", func() {
			_, err := store.Load(ctx)

			Convey("Then Load reports not found", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When an artifact is saved and loaded", func() {
			a := validArtifact()
			So(store.Save(ctx, a), ShouldBeNil)

			got, err := store.Load(ctx)

			Convey("Then the round trip preserves the artifact", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, a)
			})

			Convey("Then no temp files are left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When an invalid artifact is saved", func() {
			a := validArtifact()
			a.Model = nil

			err := store.Save(ctx, a)

			Convey("Then the save is rejected before touching disk", func() {
				So(err, ShouldWrap, predict.ErrInvalidArtifact)
				_, loadErr := store.Load(ctx)
				So(loadErr, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When the artifact file is corrupt", func() {
			So(os.MkdirAll(dir, 0o755), ShouldBeNil)
			So(os.WriteFile(store.Path(), []byte("{not json"), 0o600), ShouldBeNil)

			_, err := store.Load(ctx)

			Convey("Then Load reports corruption", func() {
				So(err, ShouldWrap, repository.ErrCorrupt)
			})
		})

		Convey("When the file parses but fails validation", func() {
			So(os.WriteFile(store.Path(), []byte(`{"version":1,"mode":"historical"}`), 0o600), ShouldBeNil)

			_, err := store.Load(ctx)

			Convey("Then Load reports corruption", func() {
				So(err, ShouldWrap, repository.ErrCorrupt)
			})
		})
	})

	Convey("Given a store with a custom filename", t, func() {
		dir := t.TempDir()
		store := repository.NewFileStore(dir, repository.WithFilename("model-v2.json"))

		Convey("When an artifact is saved", func() {
			So(store.Save(ctx, validArtifact()), ShouldBeNil)

			Convey("Then it lands at the custom path", func() {
				So(store.Path(), ShouldEqual, filepath.Join(dir, "model-v2.json"))
				_, err := os.Stat(store.Path())
				So(err, ShouldBeNil)
			})
		})
	})
}
