package ml

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// Sample is one synthetic applicant with its binary repayment label.
type Sample struct {
	Profile  Profile
	Features FeatureVector
	Label    int // 1 = creditworthy
}

// labelNoiseSigma is the stddev of the Gaussian noise injected before
// thresholding, so labels are not a deterministic function of the composite.
const labelNoiseSigma = 0.05

// GeneratePopulation manufactures n synthetic applicants with plausible raw
// fields and noisy binary labels. The same seed always yields the same
// sequence.
func GeneratePopulation(n int, seed int64) ([]Sample, error) {
	if n < 1 {
		return nil, errors.Wrap(ErrInvalidInput, "population size must be at least 1")
	}

	rng := rand.New(rand.NewSource(seed))
	samples := make([]Sample, 0, n)

	for i := 0; i < n; i++ {
		income := uniform(rng, 10000, 100000)

		// Lower incomes tend to be more volatile.
		var incomeStd float64
		if income < 30000 {
			incomeStd = uniform(rng, income*0.15, income*0.35)
		} else {
			incomeStd = uniform(rng, income*0.05, income*0.20)
		}

		expenses := uniform(rng, income*0.50, income*0.85)

		upiCount := int(gamma(rng, 5, 3))

		streak := int(triangular(rng, 0, 8, 12))
		if streak > 12 {
			streak = 12
		}

		digitalMonths := int(triangular(rng, 0, 6, 24))

		// Roughly 70% of the population holds savings.
		var savings float64
		if rng.Float64() > 0.3 {
			savings = uniform(rng, 0, income*6)
		}

		// Roughly 30% are self-employed.
		var businessRev, businessExp float64
		if rng.Float64() > 0.7 {
			businessRev = uniform(rng, income*0.5, income*2)
			businessExp = uniform(rng, businessRev*0.5, businessRev*0.9)
		}

		p := Profile{
			MonthlyIncome:         income,
			MonthlyExpenses:       expenses,
			IncomeStdDev:          incomeStd,
			UPITransactionCount:   upiCount,
			BillPaymentStreak:     streak,
			DigitalActivityMonths: digitalMonths,
			SavingsAmount:         savings,
			BusinessRevenue:       businessRev,
			BusinessExpenses:      businessExp,
		}

		f := Extract(p)

		label := 0
		if Composite(f)+rng.NormFloat64()*labelNoiseSigma >= 0.5 {
			label = 1
		}

		samples = append(samples, Sample{Profile: p, Features: f, Label: label})
	}

	return samples, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// gamma draws from a Gamma(shape, scale) distribution for integer shapes,
// as the sum of shape exponentials.
func gamma(rng *rand.Rand, shape int, scale float64) float64 {
	var sum float64
	for i := 0; i < shape; i++ {
		sum += rng.ExpFloat64() * scale
	}
	return sum
}

// triangular draws from a triangular distribution on [lo, hi] with mode m.
func triangular(rng *rand.Rand, lo, m, hi float64) float64 {
	u := rng.Float64()
	cut := (m - lo) / (hi - lo)
	if u < cut {
		return lo + math.Sqrt(u*(hi-lo)*(m-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-m))
}
