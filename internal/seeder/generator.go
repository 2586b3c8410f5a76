package seeder

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/okian/givematch/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 6
)

// Trust score profiles.
const (
	trustedMin      = 70.0
	trustedRange    = 30.0
	averageTrustMin = 40.0
	averageTrustRng = 30.0
	lowTrustMin     = 5.0
	lowTrustRange   = 35.0
)

// Request age profiles, in hours.
const (
	urgentMaxHours   = 1.0
	recentMaxHours   = 24.0
	staleMaxHours    = 168.0
	ancientMaxHours  = 720.0
	hoursPerInterval = float64(time.Hour)
)

// Transaction amount profiles.
const (
	smallAmountMax  = 5000.0
	largeAmountMin  = 45000.0
	largeAmountRng  = 20000.0
	mediumAmountMin = 5000.0
	mediumAmountRng = 40000.0
)

// Profile case indices.
const (
	caseTrustedLocal  = 0
	caseTrustedRemote = 1
	caseAverageLocal  = 2
	caseAverageRemote = 3
	caseLowTrust      = 4
	caseUnknownTrust  = 5
)

var cities = []struct {
	City   string
	Region string
}{
	{"Lagos", "Lagos State"},
	{"Ikeja", "Lagos State"},
	{"Abuja", "FCT"},
	{"Kano", "Kano State"},
	{"Ibadan", "Oyo State"},
	{"Port Harcourt", "Rivers State"},
}

var categories = []string{"education", "medical", "food", "shelter", "disaster_relief"}

var countries = []string{"NG", "NG", "NG", "GH", "KE", "US"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pickInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateDonors creates donors with varied trust and preference profiles.
func generateDonors(ctx context.Context, config *Config, stats *Stats) []Donor {
	logger.Get().Info(ctx, "generating donors", logger.Int("numDonors", config.NumDonors))

	donors := make([]Donor, config.NumDonors)
	for i := range donors {
		donors[i] = generateSingleDonor()
	}
	stats.DonorsGenerated = len(donors)
	return donors
}

// generateSingleDonor creates one donor from a random profile.
func generateSingleDonor() Donor {
	loc := cities[pickInt(len(cities))]
	d := Donor{
		ID:       uuid.New().String(),
		Location: Location{City: loc.City, Region: loc.Region},
	}

	switch pickInt(profileDivisor) {
	case caseTrustedLocal, caseTrustedRemote:
		trust := trustedMin + getRandomFloat()*trustedRange
		d.TrustScore = &trust
	case caseAverageLocal, caseAverageRemote:
		trust := averageTrustMin + getRandomFloat()*averageTrustRng
		d.TrustScore = &trust
	case caseLowTrust:
		trust := lowTrustMin + getRandomFloat()*lowTrustRange
		d.TrustScore = &trust
	case caseUnknownTrust:
		// No trust history
	}

	// Most donors opt into one or two categories.
	d.PreferredCategories = []string{categories[pickInt(len(categories))]}
	if pickInt(2) == 0 {
		d.PreferredCategories = append(d.PreferredCategories, categories[pickInt(len(categories))])
	}
	return d
}

// generateRecipients creates a shared candidate pool with varied request ages.
func generateRecipients(ctx context.Context, config *Config) []Recipient {
	logger.Get().Info(ctx, "generating recipient pool", logger.Int("numRecipients", config.NumRecipient))

	recipients := make([]Recipient, config.NumRecipient)
	for i := range recipients {
		recipients[i] = generateSingleRecipient()
	}
	return recipients
}

// generateSingleRecipient creates one recipient waiting on a request.
func generateSingleRecipient() Recipient {
	loc := cities[pickInt(len(cities))]
	r := Recipient{
		ID:       uuid.New().String(),
		Location: Location{City: loc.City, Region: loc.Region},
		Category: categories[pickInt(len(categories))],
	}

	trust := averageTrustMin + getRandomFloat()*(trustedMin+trustedRange-averageTrustMin)
	if pickInt(4) != 0 {
		r.TrustScore = &trust
	}

	ageHours := requestAgeHours()
	created := time.Now().UTC().Add(-time.Duration(ageHours * hoursPerInterval))
	r.RequestCreated = created.Format(time.RFC3339)
	return r
}

// requestAgeHours draws a request age skewed toward recent requests.
func requestAgeHours() float64 {
	switch pickInt(4) {
	case 0:
		return getRandomFloat() * urgentMaxHours
	case 1:
		return getRandomFloat() * recentMaxHours
	case 2:
		return getRandomFloat() * staleMaxHours
	default:
		return getRandomFloat() * ancientMaxHours
	}
}

// generateTransactions creates transactions that exercise every fraud rule.
func generateTransactions(config *Config) []FraudRequest {
	txs := make([]FraudRequest, config.NumFraud)
	for i := range txs {
		tx := Transaction{
			ID:       uuid.New().String(),
			Location: TxLocation{Country: countries[pickInt(len(countries))]},
		}
		switch pickInt(3) {
		case 0:
			tx.Amount = getRandomFloat() * smallAmountMax
		case 1:
			tx.Amount = mediumAmountMin + getRandomFloat()*mediumAmountRng
		default:
			tx.Amount = largeAmountMin + getRandomFloat()*largeAmountRng
		}
		if pickInt(3) != 0 {
			trust := lowTrustMin + getRandomFloat()*(trustedMin+trustedRange-lowTrustMin)
			tx.UserHistory.TrustScore = &trust
		}
		txs[i] = FraudRequest{Transaction: tx}
	}
	return txs
}

// buildTrainingSamples labels donor/recipient pairs with an outcome that
// loosely rewards shared location and category, so a trained model has
// signal to find.
func buildTrainingSamples(donors []Donor, recipients []Recipient) []TrainingSample {
	samples := make([]TrainingSample, 0, len(donors))
	for i, d := range donors {
		r := recipients[i%len(recipients)]
		outcome := 0.3 + getRandomFloat()*0.2
		if d.Location.City == r.Location.City {
			outcome += 0.2
		}
		for _, c := range d.PreferredCategories {
			if c == r.Category {
				outcome += 0.2
				break
			}
		}
		if outcome > 1.0 {
			outcome = 1.0
		}
		samples = append(samples, TrainingSample{Donor: d, Recipient: r, OutcomeScore: outcome})
	}
	return samples
}
