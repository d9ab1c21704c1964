package simulate

import (
	"math/rand"
	"time"

	"github.com/aquaview/aquaview/internal/baseline"
	"github.com/aquaview/aquaview/internal/telemetry"
)

// Noise amplitudes per field. Each generated value is
// baseline ± uniform(amplitude).
const (
	AmplitudePH              = 0.5
	AmplitudeTurbidity       = 0.75
	AmplitudeTemperature     = 1.5
	AmplitudeDissolvedOxygen = 1.0
)

// Physical floors applied after noise. Turbidity cannot go negative and a
// reading below 3 mg/L dissolved oxygen is outside the simulated regime.
const (
	FloorTurbidity       = 0.1
	FloorDissolvedOxygen = 3.0
)

// DefaultSeedCount is how many backdated readings seed each chart at startup.
const DefaultSeedCount = 10

// Generator derives noisy readings from baselines. Not safe for concurrent
// use; the engine owns one and calls it from a single tick loop.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator with a time-seeded noise source.
func NewGenerator() *Generator {
	return NewGeneratorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewGeneratorWithRand returns a Generator using rng, so tests control the
// noise draws.
func NewGeneratorWithRand(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces one reading around b, stamped with now.
func (g *Generator) Generate(b baseline.Baseline, now time.Time) telemetry.Reading {
	return telemetry.Reading{
		PH:              b.PH + g.noise(AmplitudePH),
		Turbidity:       floor(b.Turbidity+g.noise(AmplitudeTurbidity), FloorTurbidity),
		Temperature:     b.Temperature + g.noise(AmplitudeTemperature),
		DissolvedOxygen: floor(b.DissolvedOxygen+g.noise(AmplitudeDissolvedOxygen), FloorDissolvedOxygen),
		Timestamp:       now,
	}
}

// Seed produces n readings around b with backdated timestamps spaced interval
// apart, oldest first, the last one stamped now. Used to backfill charts so
// the dashboard never starts empty.
func (g *Generator) Seed(b baseline.Baseline, now time.Time, interval time.Duration, n int) []telemetry.Reading {
	if n <= 0 {
		n = DefaultSeedCount
	}
	out := make([]telemetry.Reading, 0, n)
	for i := 0; i < n; i++ {
		ts := now.Add(-time.Duration(n-1-i) * interval)
		out = append(out, g.Generate(b, ts))
	}
	return out
}

// noise returns a uniform draw in [-amplitude, +amplitude].
func (g *Generator) noise(amplitude float64) float64 {
	return (g.rng.Float64()*2 - 1) * amplitude
}

func floor(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
