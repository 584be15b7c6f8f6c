package score

import (
	"math"
	"testing"

	"coinpulse/internal/config"
	"coinpulse/internal/model"
)

func defaultEngine() *Engine {
	var cfg config.Config
	cfg.FillDefaults()
	return NewEngine(cfg.Scoring)
}

func TestInfluenceTierBoundaries(t *testing.T) {
	e := defaultEngine()
	cases := []struct {
		followers int
		tier      string
		score     float64
	}{
		{250000, "T1", 1.5},
		{100000, "T1", 1.5},
		{99999, "T2", 1.0},
		{10000, "T2", 1.0},
		{9999, "T3", 0.7},
		{1000, "T3", 0.7},
		{999, "T4", 0.5},
		{0, "T4", 0.5},
	}
	for _, c := range cases {
		got := e.Influence(model.Author{FollowerCount: c.followers})
		if got.Tier != c.tier || got.Score != c.score {
			t.Errorf("Influence(%d followers) = %s/%.2f, want %s/%.2f",
				c.followers, got.Tier, got.Score, c.tier, c.score)
		}
	}
}

func TestInfluenceVerificationMultipliers(t *testing.T) {
	e := defaultEngine()

	legacy := e.Influence(model.Author{FollowerCount: 10000, LegacyVerified: true})
	if legacy.Score != 1.2 {
		t.Errorf("legacy verified T2 score = %.2f, want 1.20", legacy.Score)
	}

	platform := e.Influence(model.Author{FollowerCount: 10000, PlatformVerified: true})
	if platform.Score != 1.1 {
		t.Errorf("platform verified T2 score = %.2f, want 1.10", platform.Score)
	}

	both := e.Influence(model.Author{FollowerCount: 100000, LegacyVerified: true, PlatformVerified: true})
	// 1.5 * 1.2 * 1.1 = 1.98
	if both.Score != 1.98 {
		t.Errorf("doubly verified T1 score = %.2f, want 1.98", both.Score)
	}
	if both.VerificationMultiplier != 1.32 {
		t.Errorf("multiplier = %.2f, want 1.32", both.VerificationMultiplier)
	}
}

func TestViralZeroMetrics(t *testing.T) {
	e := defaultEngine()
	v := e.Viral(model.Metrics{})
	if v.Index != 0 {
		t.Errorf("viral index of zero metrics = %.2f, want 0", v.Index)
	}
	if v.Breakdown.ViewsBonus != 0 {
		t.Errorf("views bonus = %.2f, want 0", v.Breakdown.ViewsBonus)
	}
}

func TestViralViewsBonusOnlyWhenPresent(t *testing.T) {
	e := defaultEngine()
	without := e.Viral(model.Metrics{Reposts: 10, Likes: 20, Replies: 5})
	with := e.Viral(model.Metrics{Reposts: 10, Likes: 20, Replies: 5, Views: 10000})
	if with.Index <= without.Index {
		t.Errorf("views did not raise index: %.2f vs %.2f", with.Index, without.Index)
	}
	wantBonus := math.Round(math.Log(10001)*0.1*100) / 100
	if with.Breakdown.ViewsBonus != wantBonus {
		t.Errorf("views bonus = %.2f, want %.2f", with.Breakdown.ViewsBonus, wantBonus)
	}
}

func TestViralComposite(t *testing.T) {
	e := defaultEngine()
	v := e.Viral(model.Metrics{Reposts: 100, Likes: 500, Replies: 50})
	want := math.Log(101)*0.4 + math.Log(501)*0.3 + math.Log(51)*0.3
	if math.Abs(v.Index-math.Round(want*100)/100) > 1e-9 {
		t.Errorf("index = %.2f, want %.2f", v.Index, want)
	}
}

func TestImpactNeutralIsZero(t *testing.T) {
	e := defaultEngine()
	inf := e.Influence(model.Author{FollowerCount: 500000, LegacyVerified: true})
	v := e.Viral(model.Metrics{Reposts: 1000, Likes: 5000, Views: 100000})
	impact := e.Impact(model.SentimentResult{Label: model.SentimentNeutral, Score: 0, Confidence: 0.9}, inf, v)
	if impact.Value != 0 {
		t.Errorf("neutral impact = %.2f, want 0", impact.Value)
	}
}

func TestImpactSignFollowsSentiment(t *testing.T) {
	e := defaultEngine()
	inf := e.Influence(model.Author{FollowerCount: 10000})
	v := e.Viral(model.Metrics{Reposts: 10, Likes: 100})

	pos := e.Impact(model.SentimentResult{Score: 1, Confidence: 0.8}, inf, v)
	neg := e.Impact(model.SentimentResult{Score: -1, Confidence: 0.8}, inf, v)
	if pos.Value <= 0 || neg.Value >= 0 {
		t.Errorf("impacts = %.2f / %.2f, want positive / negative", pos.Value, neg.Value)
	}
	if pos.Value != -neg.Value {
		t.Errorf("impacts not symmetric: %.2f vs %.2f", pos.Value, neg.Value)
	}
}

func TestImpactGrowsWithConfidence(t *testing.T) {
	e := defaultEngine()
	inf := e.Influence(model.Author{FollowerCount: 10000})
	v := e.Viral(model.Metrics{})
	low := e.Impact(model.SentimentResult{Score: 1, Confidence: 0.2}, inf, v)
	high := e.Impact(model.SentimentResult{Score: 1, Confidence: 0.9}, inf, v)
	if high.Value <= low.Value {
		t.Errorf("impact did not grow with confidence: %.2f vs %.2f", high.Value, low.Value)
	}
}
