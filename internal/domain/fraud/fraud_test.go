package fraud_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/givematch/internal/domain/fraud"
	"github.com/okian/givematch/internal/domain/model"
)

func trust(v float64) *float64 { return &v }

func TestAnalyze(t *testing.T) {
	Convey("Given the default scorer", t, func() {
		s := fraud.NewScorer()

		Convey("When the transaction is unremarkable", func() {
			a := s.Analyze(model.Transaction{
				ID:             "t1",
				Amount:         1000,
				Country:        "NG",
				UserTrustScore: trust(80),
			})

			Convey("Then no rule fires", func() {
				So(a.Score, ShouldEqual, 0)
				So(a.Risk, ShouldEqual, fraud.RiskLow)
				So(a.Action, ShouldEqual, fraud.ActionAllow)
				So(a.Reasons, ShouldBeEmpty)
				So(a.Confidence, ShouldEqual, 0.8)
			})
		})

		Convey("When the amount is high", func() {
			a := s.Analyze(model.Transaction{Amount: 60000, Country: "NG", UserTrustScore: trust(80)})

			Convey("Then only the amount rule fires", func() {
				So(a.Score, ShouldEqual, 30)
				So(a.Risk, ShouldEqual, fraud.RiskLow)
				So(a.Reasons, ShouldResemble, []string{fraud.ReasonHighAmount})
			})
		})

		Convey("When the amount sits exactly on the threshold", func() {
			a := s.Analyze(model.Transaction{Amount: 50000, Country: "NG", UserTrustScore: trust(80)})

			Convey("Then the amount rule does not fire", func() {
				So(a.Score, ShouldEqual, 0)
			})
		})

		Convey("When a high-amount international transaction has low trust", func() {
			a := s.Analyze(model.Transaction{Amount: 60000, Country: "US", UserTrustScore: trust(40)})

			Convey("Then the rules stack to a high-risk review", func() {
				So(a.Score, ShouldEqual, 75)
				So(a.Risk, ShouldEqual, fraud.RiskHigh)
				So(a.Action, ShouldEqual, fraud.ActionReview)
				So(a.Reasons, ShouldHaveLength, 3)
			})
		})

		Convey("When trust history is absent", func() {
			a := s.Analyze(model.Transaction{Amount: 1000, Country: "NG"})

			Convey("Then the trust rule does not fire", func() {
				So(a.Score, ShouldEqual, 0)
			})
		})

		Convey("When trust sits exactly on the threshold", func() {
			a := s.Analyze(model.Transaction{Amount: 1000, Country: "NG", UserTrustScore: trust(50)})

			Convey("Then the trust rule does not fire", func() {
				So(a.Score, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a scorer with an overridden home country", t, func() {
		s := fraud.NewScorer(fraud.WithHomeCountry("KE"))

		Convey("When the transaction originates from the new home market", func() {
			a := s.Analyze(model.Transaction{Amount: 1000, Country: "KE", UserTrustScore: trust(80)})

			Convey("Then the international rule does not fire", func() {
				So(a.Score, ShouldEqual, 0)
			})
		})

		Convey("When the transaction originates from the default home market", func() {
			a := s.Analyze(model.Transaction{Amount: 1000, Country: "NG", UserTrustScore: trust(80)})

			Convey("Then it now counts as international", func() {
				So(a.Score, ShouldEqual, 20)
				So(a.Reasons, ShouldResemble, []string{fraud.ReasonInternational})
			})
		})
	})
}
