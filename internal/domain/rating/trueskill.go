package rating

import (
	"fmt"
	"math"
)

// Exposure multiplier: exposed skill is mu - exposureK*sigma.
const exposureK = 3.0

// Guards against degenerate denominators in the truncated-normal moments.
const (
	minDenom       = 1e-162
	maxSigmaShrink = 1.0 - 1e-6
)

// trueSkill implements Engine with the pairwise-update approximation of
// the TrueSkill model: every competitor is compared against every other,
// and the per-pair mean and variance corrections are summed. For two
// players this is exactly the two-player TrueSkill update; for larger
// fields it is the usual fast approximation of the full factor graph.
type trueSkill struct {
	cfg        Config
	drawMargin float64
}

// NewEngine builds an engine for one game's parameters.
func NewEngine(cfg Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &trueSkill{
		cfg:        cfg,
		drawMargin: drawMargin(cfg.DrawProbability, cfg.Beta),
	}, nil
}

func (e *trueSkill) Rating(mu, sigma float64) Rating {
	return Rating{Mu: mu, Sigma: sigma}
}

func (e *trueSkill) Exposed(r Rating) float64 {
	return r.Mu - exposureK*r.Sigma
}

func (e *trueSkill) Rate(ratings []Rating, ranks []int) ([]Rating, error) {
	if len(ratings) != len(ranks) {
		return nil, fmt.Errorf("%w: %d ratings, %d ranks", ErrRankMismatch, len(ratings), len(ranks))
	}
	if len(ratings) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewRatings, len(ratings))
	}

	// Dynamics: inflate every variance by tau^2 before the update so
	// ratings stay mobile over long series.
	vars := make([]float64, len(ratings))
	for i, r := range ratings {
		vars[i] = r.Sigma*r.Sigma + e.cfg.Tau*e.cfg.Tau
	}

	muDelta := make([]float64, len(ratings))
	varShrink := make([]float64, len(ratings))

	twoBetaSq := 2 * e.cfg.Beta * e.cfg.Beta
	for i := range ratings {
		for j := range ratings {
			if i == j {
				continue
			}
			c := math.Sqrt(vars[i] + vars[j] + twoBetaSq)
			t := (ratings[i].Mu - ratings[j].Mu) / c
			eps := e.drawMargin / c

			var v, w float64
			switch {
			case ranks[i] < ranks[j]: // i beat j
				v = vExceeds(t, eps)
				w = wExceeds(t, eps)
			case ranks[i] > ranks[j]: // j beat i
				v = -vExceeds(-t, eps)
				w = wExceeds(-t, eps)
			default: // draw
				v = vWithin(t, eps)
				w = wWithin(t, eps)
			}

			muDelta[i] += vars[i] / c * v
			varShrink[i] += vars[i] / (c * c) * w
		}
	}

	out := make([]Rating, len(ratings))
	for i, r := range ratings {
		shrink := math.Min(varShrink[i], maxSigmaShrink)
		out[i] = Rating{
			Mu:    r.Mu + muDelta[i],
			Sigma: math.Sqrt(vars[i] * (1 - shrink)),
		}
	}
	return out, nil
}

// drawMargin converts a draw probability into the margin epsilon within
// which a two-player performance difference counts as a draw.
func drawMargin(p, beta float64) float64 {
	if p <= 0 {
		return 0
	}
	return invCDF((p+1)/2) * math.Sqrt2 * beta
}

// vExceeds and wExceeds are the additive and multiplicative corrections
// for a decisive outcome: the mean of the performance difference
// truncated below at the draw margin, and its variance reduction.
func vExceeds(t, eps float64) float64 {
	denom := normCDF(t - eps)
	if denom < minDenom {
		return -t + eps
	}
	return normPDF(t-eps) / denom
}

func wExceeds(t, eps float64) float64 {
	v := vExceeds(t, eps)
	return v * (v + t - eps)
}

// vWithin and wWithin are the corrections for a draw: the performance
// difference is truncated to the interval [-eps, eps].
func vWithin(t, eps float64) float64 {
	denom := normCDF(eps-t) - normCDF(-eps-t)
	if denom < minDenom {
		if t < 0 {
			return -t - eps
		}
		return -t + eps
	}
	return (normPDF(-eps-t) - normPDF(eps-t)) / denom
}

func wWithin(t, eps float64) float64 {
	denom := normCDF(eps-t) - normCDF(-eps-t)
	if denom < minDenom {
		return 1
	}
	v := vWithin(t, eps)
	return v*v + ((eps-t)*normPDF(eps-t)+(eps+t)*normPDF(eps+t))/denom
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func invCDF(p float64) float64 {
	return -math.Sqrt2 * math.Erfinv(1-2*p)
}
