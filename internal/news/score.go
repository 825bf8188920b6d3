package news

import "strings"

// Scoring weights. A title match outweighs a body match; the exact ratio
// drifted across iterations, 1.6:0.9 is the one kept. Scores are a plain sum
// with no normalization and only rank items within a single run.
const (
	titleWeight     = 1.6
	bodyWeight      = 0.9
	negativePenalty = 1.2
	priorityBonus   = 0.8
	signalBoost     = 0.8
)

// Score assigns the relevance score and priority flag to an item. Matching is
// case-insensitive substring matching; a term hiding inside a longer word
// over-matches, which is an accepted approximation.
func (r Rules) Score(it *Item) {
	title := strings.ToLower(it.Title)
	body := strings.ToLower(it.Summary)

	var score float64
	for _, kw := range r.Keywords {
		if strings.Contains(title, kw) {
			score += titleWeight
		}
		if strings.Contains(body, kw) {
			score += bodyWeight
		}
	}
	for _, neg := range r.NegativeHints {
		if strings.Contains(title, neg) || strings.Contains(body, neg) {
			score -= negativePenalty
		}
	}

	text := title + " " + body
	for _, w := range r.PriorityWords {
		if strings.Contains(text, w) {
			it.Priority = true
			score += priorityBonus
			break
		}
	}

	score += r.AuthorityWeight(it.SourceHost)
	it.Score = score
}

// ScoreAll scores every item in the pool in place.
func (r Rules) ScoreAll(pool []*Item) {
	for _, it := range pool {
		r.Score(it)
	}
}
