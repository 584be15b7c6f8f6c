package score

import (
	"math"

	"coinpulse/internal/config"
	"coinpulse/internal/model"
)

// Engine computes per-post influence, virality, and weighted sentiment
// impact. All constants come from configuration; nothing is recomputed or
// cached across runs.
type Engine struct {
	cfg config.ScoringConfig
}

func NewEngine(cfg config.ScoringConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Influence maps the follower count to a tier weight and applies the
// verification multipliers.
func (e *Engine) Influence(a model.Author) model.InfluenceScore {
	var tier string
	var base float64
	switch {
	case a.FollowerCount >= e.cfg.Tier1Followers:
		tier, base = "T1", e.cfg.Tier1Weight
	case a.FollowerCount >= e.cfg.Tier2Followers:
		tier, base = "T2", e.cfg.Tier2Weight
	case a.FollowerCount >= e.cfg.Tier3Followers:
		tier, base = "T3", e.cfg.Tier3Weight
	default:
		tier, base = "T4", e.cfg.Tier4Weight
	}

	mult := 1.0
	if a.LegacyVerified {
		mult *= e.cfg.LegacyVerifiedBonus
	}
	if a.PlatformVerified {
		mult *= e.cfg.PlatformVerifiedBonus
	}

	return model.InfluenceScore{
		Score:                  round2(base * mult),
		Tier:                   tier,
		BaseWeight:             base,
		VerificationMultiplier: round2(mult),
	}
}

// Viral computes the log-weighted engagement composite. The views bonus
// only applies when view data is present and positive; views were already
// normalized to 0 for missing or non-numeric upstream values.
func (e *Engine) Viral(m model.Metrics) model.ViralIndex {
	reposts := math.Log(float64(m.Reposts)+1) * 0.4
	likes := math.Log(float64(m.Likes)+1) * 0.3
	replies := math.Log(float64(m.Replies)+1) * 0.3

	index := reposts + likes + replies
	viewsBonus := 0.0
	if m.Views > 0 {
		viewsBonus = math.Log(float64(m.Views)+1) * 0.1
		index += viewsBonus
	}

	return model.ViralIndex{
		Index: round2(index),
		Breakdown: model.ViralBreakdown{
			RepostsScore: round2(reposts),
			LikesScore:   round2(likes),
			RepliesScore: round2(replies),
			ViewsBonus:   round2(viewsBonus),
		},
	}
}

// Impact is the post's contribution to corpus-level sentiment. The form is
// multiplicative: a neutral post contributes exactly zero regardless of
// influence or virality.
func (e *Engine) Impact(s model.SentimentResult, inf model.InfluenceScore, v model.ViralIndex) model.WeightedImpact {
	value := float64(s.Score) * inf.Score * (1 + v.Index/10) * (1 + s.Confidence/5)
	return model.WeightedImpact{Value: round2(value)}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
