// Package scoring ranks signals with a fixed multi-factor formula. The
// formula is an ordered list of named rules, each contributing a labeled
// delta; the breakdown is a first-class output, not incidental logging.
package scoring

import (
	"fmt"

	"insider-radar/internal/domain"
	"insider-radar/internal/enrichment"
	"insider-radar/internal/idhash"
)

// baseScores is the per-pattern base score table. Convergence scores
// highest; watchlist is informational and scores lowest.
var baseScores = map[domain.PatternKind]float64{
	domain.PatternConvergence:    10,
	domain.PatternEliteCluster:   8,
	domain.PatternClusterBuy:     7,
	domain.PatternBearishCluster: 6,
	domain.PatternCSuiteBuy:      6,
	domain.PatternCorporateBuy:   6,
	domain.PatternEliteSingleBuy: 5,
	domain.PatternLargeSingleBuy: 4,
	domain.PatternWatchlist:      3,
}

// rule is one scoring step. Rules run in order; each sees the running
// subtotal so multiplicative steps can express themselves as a delta.
type rule struct {
	name  string
	apply func(sig *domain.Signal, tc *enrichment.TickerContext, subtotal float64) (delta float64, detail string)
}

// Scorer maps a raw signal plus enrichment context to a composite rank.
// Pure and deterministic; no clamping, the score is a relative rank.
type Scorer struct {
	rules []rule
}

// NewScorer creates a new Scorer with the standard rule order.
func NewScorer() *Scorer {
	return &Scorer{rules: []rule{
		{"Base Score", baseScore},
		{"Convergence", convergenceBonus},
		{"Aggregate Value", valueTier},
		{"Actor Seniority", seniorityBonus},
		{"Market Cap", marketCapMultiplier},
		{"Short Interest", shortInterestAdjustment},
		{"Bipartisan", bipartisanBonus},
	}}
}

// Score computes the composite score and itemized breakdown for a signal.
// A nil enrichment context scores neutrally.
func (s *Scorer) Score(sig *domain.Signal, tc *enrichment.TickerContext) *domain.ScoredSignal {
	if tc == nil {
		tc = &enrichment.TickerContext{}
	}

	scored := &domain.ScoredSignal{
		Signal:   *sig,
		AlertKey: idhash.SignalKey(sig),
	}
	for _, r := range s.rules {
		delta, detail := r.apply(sig, tc, scored.Score)
		scored.Score += delta
		scored.Breakdown = append(scored.Breakdown, domain.FactorContribution{
			Factor: r.name,
			Delta:  delta,
			Detail: detail,
		})
	}
	return scored
}

func baseScore(sig *domain.Signal, _ *enrichment.TickerContext, _ float64) (float64, string) {
	return baseScores[sig.Pattern], string(sig.Pattern)
}

func convergenceBonus(sig *domain.Signal, _ *enrichment.TickerContext, _ float64) (float64, string) {
	if sig.Convergence == nil {
		return 0, "not convergent"
	}
	return sig.Convergence.Bonus, sig.Convergence.Label
}

func valueTier(sig *domain.Signal, _ *enrichment.TickerContext, _ float64) (float64, string) {
	detail := fmt.Sprintf("$%.0f aggregate", sig.AggregateValue)
	switch v := sig.AggregateValue; {
	case v >= 5000000:
		return 3, detail
	case v >= 1000000:
		return 2, detail
	case v >= 500000:
		return 1.5, detail
	case v >= 100000:
		return 1, detail
	default:
		return 0.5, detail
	}
}

func seniorityBonus(sig *domain.Signal, _ *enrichment.TickerContext, _ float64) (float64, string) {
	best := domain.SeniorityOther
	for _, e := range sig.Events {
		if e.ActorClass != domain.ClassInsider {
			continue
		}
		if s := domain.RoleSeniority(e.ActorRole); s > best {
			best = s
		}
	}
	switch best {
	case domain.SeniorityCSuite:
		return 2, "C-suite"
	case domain.SeniorityVPDirector:
		return 1, "VP/Director"
	default:
		return 0.5, "other"
	}
}

func marketCapMultiplier(_ *domain.Signal, tc *enrichment.TickerContext, subtotal float64) (float64, string) {
	if tc.MarketCap == nil {
		return 0, "×1.0 (market cap unavailable)"
	}
	var mult float64
	switch mc := *tc.MarketCap; {
	case mc < 2e9:
		mult = 1.2
	case mc <= 10e9:
		mult = 1.1
	case mc <= 100e9:
		mult = 1.0
	default:
		mult = 0.9
	}
	return subtotal * (mult - 1), fmt.Sprintf("×%.1f ($%.1fB market cap)", mult, *tc.MarketCap/1e9)
}

func shortInterestAdjustment(_ *domain.Signal, tc *enrichment.TickerContext, _ float64) (float64, string) {
	if tc.ShortInterestPct == nil {
		return 0, "short interest unavailable"
	}
	detail := fmt.Sprintf("%.1f%% short interest", *tc.ShortInterestPct)
	switch si := *tc.ShortInterestPct; {
	case si > 30:
		return -2, detail
	case si >= 5 && si <= 15:
		return 1, detail
	default:
		return 0, detail
	}
}

func bipartisanBonus(sig *domain.Signal, _ *enrichment.TickerContext, _ float64) (float64, string) {
	if !sig.Bipartisan {
		return 0, "not bipartisan"
	}
	// Already folded into the convergence bonus when the record is bipartisan.
	if sig.Convergence != nil && sig.Convergence.Bipartisan {
		return 0, "counted in convergence bonus"
	}
	return 1, "both parties present"
}
