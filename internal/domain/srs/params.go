package srs

// Quality score bounds. Scores 0-2 denote a failed recall, 3-5 a successful
// one with increasing confidence.
const (
	MinQuality    = 0
	MaxQuality    = 5
	PassThreshold = 3
)

// Params defines the configurable constants of the scheduling algorithm.
type Params struct {
	// MinEaseFactor is the floor the ease factor can never drop below.
	MinEaseFactor float64

	// LapseIntervalDays is the interval a card resets to after a failed
	// recall, regardless of its prior interval.
	LapseIntervalDays int

	// FirstIntervalDays is the interval after the first successful review
	// of a new card (current interval 0).
	FirstIntervalDays int

	// SecondIntervalDays is the interval after a successful review of a
	// card currently on a one-day interval.
	SecondIntervalDays int

	// CorrectQuality and IncorrectQuality are the quality scores assumed
	// when the caller only supplies a binary correctness flag.
	CorrectQuality   int
	IncorrectQuality int
}

// NewDefaultParams creates a Params instance with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:      1.3,
		LapseIntervalDays:  1,
		FirstIntervalDays:  1,
		SecondIntervalDays: 6,
		CorrectQuality:     4,
		IncorrectQuality:   2,
	}
}
