package constants

// Level is the canonical confidence band for a scored record.
type Level string

// Stable values (these exact strings appear on the wire).
const (
	LevelVeryLow Level = "very_low" // overall < 0.4
	LevelLow     Level = "low"      // overall < 0.6
	LevelMedium  Level = "medium"   // overall < 0.8
	LevelHigh    Level = "high"     // overall >= 0.8
)

// LevelFor buckets an overall confidence score into a Level.
func LevelFor(overall float64) Level {
	switch {
	case overall < 0.4:
		return LevelVeryLow
	case overall < 0.6:
		return LevelLow
	case overall < 0.8:
		return LevelMedium
	default:
		return LevelHigh
	}
}
