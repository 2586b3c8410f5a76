package predict

import (
	"math"
	"math/rand"
)

// Synthetic bootstrap parameters. The dataset mimics the platform's
// population: trust is bell-shaped on [0,1], most pairs are not
// co-located, waiting times and account ages decay exponentially, and
// cycle counts are small Poisson draws.
const (
	syntheticSampleCount = 1000
	syntheticSeed        = 42

	betaTrustAlpha     = 2
	betaTrustBeta      = 2
	proximityShare     = 0.3
	waitingMeanDays    = 7
	cyclesMean         = 2
	historyMean        = 5
	ageBaseYears       = 25
	ageSpreadYears     = 10
	accountAgeMeanDays = 100
	labelNoiseSigma    = 0.1
)

// syntheticLabelWeights is the fixed linear combination, in ModelOrder,
// that labels synthetic samples before noise and clamping.
var syntheticLabelWeights = []float64{ //nolint:gochecknoglobals // fixed labeling rule
	0.3, 0.25, 0.2, 0.15, 0.05, 0.025, 0.025, 0.1,
}

// syntheticDataset generates n labeled eight-feature samples. The seed is
// fixed so a bootstrap on a fresh node reproduces the same initial model.
func syntheticDataset(n int) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(syntheticSeed)) //nolint:gosec // reproducible bootstrap, not security material
	rows := make([][]float64, n)
	labels := make([]float64, n)
	for i := 0; i < n; i++ {
		row := []float64{
			sampleBeta(rng, betaTrustAlpha, betaTrustBeta),
			sampleBernoulli(rng, proximityShare),
			rng.ExpFloat64() * waitingMeanDays,
			float64(samplePoisson(rng, cyclesMean)),
			float64(samplePoisson(rng, historyMean)),
			rng.Float64(),
			ageBaseYears + rng.ExpFloat64()*ageSpreadYears,
			rng.ExpFloat64() * accountAgeMeanDays,
		}
		label := 0.0
		for j, w := range syntheticLabelWeights {
			label += row[j] * w
		}
		label += rng.NormFloat64() * labelNoiseSigma
		rows[i] = row
		labels[i] = clamp(label)
	}
	return rows, labels
}

// sampleBeta draws from Beta(a,b) for integer shapes via the gamma ratio.
func sampleBeta(rng *rand.Rand, a, b int) float64 {
	x := sampleGammaInt(rng, a)
	y := sampleGammaInt(rng, b)
	if x+y == 0 {
		return 0.5
	}
	return x / (x + y)
}

// sampleGammaInt draws from Gamma(k,1) for integer k as a sum of
// exponentials.
func sampleGammaInt(rng *rand.Rand, k int) float64 {
	sum := 0.0
	for i := 0; i < k; i++ {
		sum += rng.ExpFloat64()
	}
	return sum
}

func sampleBernoulli(rng *rand.Rand, p float64) float64 {
	if rng.Float64() < p {
		return 1
	}
	return 0
}

// samplePoisson draws by Knuth's product method; fine for the small means
// used here.
func samplePoisson(rng *rand.Rand, mean float64) int {
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
