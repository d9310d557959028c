package sentiment

// defaultLexicon maps crypto-market keywords to signed polarity weights.
// Positive weights lean bullish, negative lean bearish.
func defaultLexicon() map[string]float64 {
	return map[string]float64{
		// bullish
		"bullish":       1.0,
		"bull":          0.9,
		"rally":         0.9,
		"surge":         0.8,
		"soar":          0.8,
		"ath":           0.8,
		"breakout":      0.7,
		"pump":          0.7,
		"moon":          0.7,
		"etf":           0.7,
		"record":        0.6,
		"gain":          0.6,
		"gains":         0.6,
		"profit":        0.6,
		"adoption":      0.6,
		"approved":      0.6,
		"halving":       0.6,
		"breakthrough":  0.6,
		"green":         0.6,
		"up":            0.5,
		"rise":          0.5,
		"rises":         0.5,
		"growth":        0.5,
		"positive":      0.5,
		"optimistic":    0.5,
		"partnership":   0.5,
		"upgrade":       0.5,
		"institutional": 0.5,
		"accumulation":  0.5,
		"inflows":       0.5,

		// bearish
		"bearish":      -1.0,
		"bear":         -0.9,
		"crash":        -1.0,
		"hack":         -1.0,
		"hacked":       -1.0,
		"exploit":      -1.0,
		"scam":         -1.0,
		"fraud":        -1.0,
		"rug":          -1.0,
		"dump":         -0.9,
		"plunge":       -0.8,
		"panic":        -0.8,
		"ban":          -0.8,
		"liquidation":  -0.8,
		"capitulation": -0.8,
		"loss":         -0.7,
		"losses":       -0.7,
		"selloff":      -0.7,
		"lawsuit":      -0.7,
		"crackdown":    -0.7,
		"fud":          -0.7,
		"fall":         -0.6,
		"falls":        -0.6,
		"drop":         -0.6,
		"drops":        -0.6,
		"decline":      -0.6,
		"red":          -0.6,
		"fear":         -0.6,
		"correction":   -0.6,
		"bubble":       -0.6,
		"overvalued":   -0.6,
		"down":         -0.5,
		"negative":     -0.5,
		"pessimistic":  -0.5,
		"sell":         -0.5,
		"regulation":   -0.5,
		"outflows":     -0.5,
	}
}
