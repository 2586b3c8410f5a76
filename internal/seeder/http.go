package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

// PostJSON performs a POST request with a JSON body and decodes a JSON
// response into out when the status is 200.
func (c *HTTPClient) PostJSON(ctx context.Context, url string, body, out interface{}) (int, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitMatches requests a ranking for each donor concurrently.
func submitMatches(ctx context.Context, config *Config, client *HTTPClient, donors []Donor, recipients []Recipient, stats *Stats) {
	log.Printf("submitting %d match requests with %d workers...", len(donors), config.Workers)

	url := config.BaseURL + "/match"

	var (
		requested  int64
		succeeded  int64
		failed     int64
		candidates int64
	)

	donorChan := make(chan Donor, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for donor := range donorChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				atomic.AddInt64(&requested, 1)

				var res MatchResult
				status, err := client.PostJSON(ctx, url, MatchRequest{
					Donor:      donor,
					Recipients: recipients,
					Limit:      config.MatchLimit,
				}, &res)
				if err != nil || status != http.StatusOK {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Printf("match request failed: status=%d err=%v", status, err)
					}
					continue
				}
				atomic.AddInt64(&succeeded, 1)
				atomic.AddInt64(&candidates, int64(len(res.Matches)))
			}
		}()
	}

	go func() {
		defer close(donorChan)
		for _, donor := range donors {
			select {
			case <-ctx.Done():
				return
			case donorChan <- donor:
			}
		}
	}()

	wg.Wait()

	stats.MatchesRequested = int(atomic.LoadInt64(&requested))
	stats.MatchesSucceeded = int(atomic.LoadInt64(&succeeded))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))
	stats.CandidatesReturned = int(atomic.LoadInt64(&candidates))

	log.Printf("match submission completed: succeeded=%d failed=%d candidates=%d",
		stats.MatchesSucceeded, stats.MatchesFailed, stats.CandidatesReturned)
}

// submitTraining posts one training batch built from the generated pairs.
func submitTraining(ctx context.Context, config *Config, client *HTTPClient, samples []TrainingSample, stats *Stats) {
	log.Printf("submitting training batch of %d samples...", len(samples))

	var out TrainOutcome
	status, err := client.PostJSON(ctx, config.BaseURL+"/train", TrainRequest{Matches: samples}, &out)
	if err != nil || status != http.StatusOK {
		log.Printf("training request failed: status=%d err=%v", status, err)
		return
	}
	stats.TrainStatus = out.Status
	stats.TrainSamples = out.Samples
	log.Printf("training outcome: status=%s samples=%d", out.Status, out.Samples)
}

// submitFraud analyzes the generated transactions sequentially; the point
// is rule coverage, not throughput.
func submitFraud(ctx context.Context, config *Config, client *HTTPClient, txs []FraudRequest, stats *Stats) {
	log.Printf("submitting %d fraud analyses...", len(txs))

	url := config.BaseURL + "/fraud/analyze"
	for _, tx := range txs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		var verdict FraudVerdict
		status, err := client.PostJSON(ctx, url, tx, &verdict)
		if err != nil || status != http.StatusOK {
			if config.Verbose {
				log.Printf("fraud request failed: status=%d err=%v", status, err)
			}
			continue
		}
		stats.FraudAnalyses++
		if verdict.Risk == "high" {
			stats.FraudHighRisk++
		}
	}
	log.Printf("fraud analysis completed: analyzed=%d highRisk=%d", stats.FraudAnalyses, stats.FraudHighRisk)
}
