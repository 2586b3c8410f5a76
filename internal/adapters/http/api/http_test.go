package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/givematch/internal/adapters/http/api"
	service "github.com/okian/givematch/internal/app"
	"github.com/okian/givematch/internal/domain/model"
	"github.com/okian/givematch/internal/domain/types"
)

// stubDeps records the last call and returns canned responses.
type stubDeps struct {
	matchResult  types.MatchResult
	matchErr     error
	trainOutcome types.TrainOutcome
	trainErr     error
	prediction   types.Prediction
	verdict      types.FraudVerdict

	lastLimit      int
	lastRecipients int
	lastSamples    int
	lastTx         model.Transaction
}

func (s *stubDeps) Match(_ context.Context, _ model.Donor, recipients []model.Recipient, limit int) (types.MatchResult, error) {
	s.lastLimit = limit
	s.lastRecipients = len(recipients)
	return s.matchResult, s.matchErr
}

func (s *stubDeps) Train(_ context.Context, samples []model.TrainingSample) (types.TrainOutcome, error) {
	s.lastSamples = len(samples)
	return s.trainOutcome, s.trainErr
}

func (s *stubDeps) Predict(_ context.Context, _ map[string]float64, _ float64) (types.Prediction, error) {
	return s.prediction, nil
}

func (s *stubDeps) AnalyzeFraud(_ context.Context, tx model.Transaction) (types.FraudVerdict, error) {
	s.lastTx = tx
	return s.verdict, nil
}

func (s *stubDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps, opts ...api.ServerOption) *httptest.Server {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, deps, opts...)
	srv.Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHandlePostMatch(t *testing.T) {
	Convey("Given the API server over stubbed dependencies", t, func() {
		deps := &stubDeps{
			matchResult: types.MatchResult{
				Matches:          []types.Match{{RecipientID: "r1", Score: 0.9}},
				TotalAvailable:   2,
				AlgorithmVersion: "v2.2",
			},
		}
		ts := newTestServer(deps, api.WithMaxMatchLimit(10))
		defer ts.Close()

		Convey("When a valid match request is posted", func() {
			resp, body := postJSON(t, ts.URL+"/match", `{
				"donor": {"id": "d1", "location": {"city": "Lagos", "region": "Lagos State"}},
				"recipients": [{"id": "r1"}, {"id": "r2"}],
				"limit": 3
			}`)

			Convey("Then the ranking is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["algorithm_version"], ShouldEqual, "v2.2")
				So(body["total_available"], ShouldEqual, 2)
				So(deps.lastLimit, ShouldEqual, 3)
				So(deps.lastRecipients, ShouldEqual, 2)
			})
		})

		Convey("When the requested limit exceeds the cap", func() {
			resp, _ := postJSON(t, ts.URL+"/match", `{
				"donor": {"id": "d1"},
				"recipients": [{"id": "r1"}],
				"limit": 500
			}`)

			Convey("Then the limit is clamped, not rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 10)
			})
		})

		Convey("When the donor is missing", func() {
			resp, body := postJSON(t, ts.URL+"/match", `{"recipients": [{"id": "r1"}]}`)

			Convey("Then the request is a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the recipient list is empty", func() {
			resp, _ := postJSON(t, ts.URL+"/match", `{"donor": {"id": "d1"}, "recipients": []}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a recipient has no ID", func() {
			resp, _ := postJSON(t, ts.URL+"/match", `{"donor": {"id": "d1"}, "recipients": [{"category": "food"}]}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the body is not JSON", func() {
			resp, _ := postJSON(t, ts.URL+"/match", `{{{`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service rejects the input", func() {
			deps.matchErr = service.ErrInvalidInput
			resp, _ := postJSON(t, ts.URL+"/match", `{"donor": {"id": "d1"}, "recipients": [{"id": "r1"}]}`)

			Convey("Then the error maps to a client error", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the method is not POST", func() {
			resp, err := http.Get(ts.URL + "/match")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestHandlePostTrain(t *testing.T) {
	Convey("Given the API server over stubbed dependencies", t, func() {
		deps := &stubDeps{
			trainOutcome: types.TrainOutcome{Status: types.StatusTrainingSkipped, Samples: 2},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When a small training batch is posted", func() {
			resp, body := postJSON(t, ts.URL+"/train", `{
				"matches": [
					{"donor": {"id": "d1"}, "recipient": {"id": "r1"}, "outcome_score": 0.7},
					{"donor": {"id": "d2"}, "recipient": {"id": "r2"}, "outcome_score": 0.3}
				]
			}`)

			Convey("Then the skipped outcome is a 200, not an error", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["status"], ShouldEqual, types.StatusTrainingSkipped)
				So(body["samples"], ShouldEqual, 2)
				So(deps.lastSamples, ShouldEqual, 2)
			})
		})

		Convey("When an outcome score is out of range", func() {
			resp, _ := postJSON(t, ts.URL+"/train", `{
				"matches": [{"donor": {"id": "d1"}, "recipient": {"id": "r1"}, "outcome_score": 1.5}]
			}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the match list is missing", func() {
			resp, _ := postJSON(t, ts.URL+"/train", `{}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHandlePostPredict(t *testing.T) {
	Convey("Given the API server over stubbed dependencies", t, func() {
		deps := &stubDeps{
			prediction: types.Prediction{Score: 0.42, Source: "model"},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When a feature map is posted", func() {
			resp, body := postJSON(t, ts.URL+"/predict", `{
				"features": {"trust_score": 0.8, "location_proximity": 1.0},
				"amount": 5000
			}`)

			Convey("Then the prediction is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["score"], ShouldEqual, 0.42)
				So(body["source"], ShouldEqual, "model")
			})
		})

		Convey("When the feature map is missing", func() {
			resp, _ := postJSON(t, ts.URL+"/predict", `{"amount": 100}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the amount is negative", func() {
			resp, _ := postJSON(t, ts.URL+"/predict", `{"features": {}, "amount": -5}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHandlePostAnalyze(t *testing.T) {
	Convey("Given the API server over stubbed dependencies", t, func() {
		deps := &stubDeps{
			verdict: types.FraudVerdict{Score: 75, Risk: "high", Action: "review", Reasons: []string{"High transaction amount"}, Confidence: 0.8},
		}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When a transaction is posted", func() {
			resp, body := postJSON(t, ts.URL+"/fraud/analyze", `{
				"transaction": {
					"id": "tx-1",
					"amount": 60000,
					"location": {"country": "US"},
					"user_history": {"trust_score": 40}
				}
			}`)

			Convey("Then the verdict is returned and the transaction forwarded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["risk"], ShouldEqual, "high")
				So(body["action"], ShouldEqual, "review")
				So(deps.lastTx.ID, ShouldEqual, "tx-1")
				So(deps.lastTx.Country, ShouldEqual, "US")
				So(*deps.lastTx.UserTrustScore, ShouldEqual, 40)
			})
		})

		Convey("When the amount is missing", func() {
			resp, _ := postJSON(t, ts.URL+"/fraud/analyze", `{"transaction": {"location": {"country": "US"}}}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the country is missing", func() {
			resp, _ := postJSON(t, ts.URL+"/fraud/analyze", `{"transaction": {"amount": 100}}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the trust score is out of range", func() {
			resp, _ := postJSON(t, ts.URL+"/fraud/analyze", `{"transaction": {"amount": 100, "location": {"country": "NG"}, "user_history": {"trust_score": 150}}}`)

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHandleStats(t *testing.T) {
	Convey("Given the API server over stubbed dependencies", t, func() {
		deps := &stubDeps{}
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When stats are requested", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)

			Convey("Then the provider's view is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["started"], ShouldBeTrue)
			})
		})
	})
}

func TestHandleHealth(t *testing.T) {
	Convey("Given the API server over stubbed dependencies", t, func() {
		ts := newTestServer(&stubDeps{})
		defer ts.Close()

		Convey("When the health endpoint is requested", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the metrics exposition is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
