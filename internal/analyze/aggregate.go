package analyze

import (
	"sort"

	"coinpulse/internal/model"
	"coinpulse/internal/topics"
)

// aggregate folds the scored posts into the corpus-level figures. Top
// lists sort by score with post id as tiebreak so parallel classification
// still yields a deterministic aggregate.
func (a *Analyzer) aggregate(r *model.AnalysisResult) {
	priceInfluenced := 0
	for _, p := range r.Posts {
		r.Sentiment[p.Sentiment.Label]++
		r.TotalWeightedImpact += p.Impact.Value
		if p.Sentiment.PriceInfluenced {
			priceInfluenced++
		}
		if p.Influence.Score >= a.Scoring.HighInfluenceThreshold {
			r.HighInfluence = append(r.HighInfluence, p)
		}
		if p.Viral.Index >= a.Scoring.ViralThreshold {
			r.Viral = append(r.Viral, p)
		}
	}

	sort.Slice(r.HighInfluence, func(i, j int) bool {
		a, b := r.HighInfluence[i], r.HighInfluence[j]
		if a.Influence.Score != b.Influence.Score {
			return a.Influence.Score > b.Influence.Score
		}
		return a.Post.ID < b.Post.ID
	})
	sort.Slice(r.Viral, func(i, j int) bool {
		a, b := r.Viral[i], r.Viral[j]
		if a.Viral.Index != b.Viral.Index {
			return a.Viral.Index > b.Viral.Index
		}
		return a.Post.ID < b.Post.ID
	})

	r.Topics = topics.Distribution(r.Posts)
	if len(r.Posts) > 0 {
		r.PriceInfluencedRate = float64(priceInfluenced) / float64(len(r.Posts))
	}
}
