package sentiment

import "strings"

// Analyzer scores headline polarity with a keyword lexicon. It implements
// repository.SentimentScorer.
type Analyzer struct {
	lexicon map[string]float64
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{lexicon: defaultLexicon()}
}

// Polarity maps text onto [-1, 1]. Texts without any lexicon match score a
// neutral 0. Headlines are short, so the score averages over matched words
// rather than all words to keep single strong keywords meaningful.
func (a *Analyzer) Polarity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var sum float64
	matched := 0
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]")
		if weight, ok := a.lexicon[word]; ok {
			sum += weight
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	score := sum / float64(matched)
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score
}
