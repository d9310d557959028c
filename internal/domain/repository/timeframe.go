package repository

// Timeframe names a historical window as exposed on the API.
type Timeframe string

const (
	Timeframe7D  Timeframe = "7d"
	Timeframe30D Timeframe = "30d"
	Timeframe6M  Timeframe = "6m"
	Timeframe1Y  Timeframe = "1y"
)

var timeframeDays = map[Timeframe]int{
	Timeframe7D:  7,
	Timeframe30D: 30,
	Timeframe6M:  180,
	Timeframe1Y:  365,
}

func IsValidTimeframe(tf string) bool {
	_, ok := timeframeDays[Timeframe(tf)]
	return ok
}

func DefaultTimeframe() Timeframe {
	return Timeframe30D
}

// NormalizeTimeframe maps unknown values onto the default window.
func NormalizeTimeframe(tf string) Timeframe {
	if IsValidTimeframe(tf) {
		return Timeframe(tf)
	}
	return DefaultTimeframe()
}

// Days returns the window length in calendar days.
func (t Timeframe) Days() int {
	if d, ok := timeframeDays[t]; ok {
		return d
	}
	return timeframeDays[DefaultTimeframe()]
}

func (t Timeframe) String() string {
	return string(t)
}
