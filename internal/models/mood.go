package models

// Mood is the self-reported mood of an entry
type Mood string

const (
	MoodVerySad   Mood = "Very Sad"
	MoodSad       Mood = "Sad"
	MoodNeutral   Mood = "Neutral"
	MoodHappy     Mood = "Happy"
	MoodVeryHappy Mood = "Very Happy"
)

// Moods lists every mood from lowest to highest
var Moods = []Mood{MoodVerySad, MoodSad, MoodNeutral, MoodHappy, MoodVeryHappy}

// rank returns the position of the mood in Moods, or -1 when unknown
func (m Mood) rank() int {
	switch m {
	case MoodVerySad:
		return 0
	case MoodSad:
		return 1
	case MoodNeutral:
		return 2
	case MoodHappy:
		return 3
	case MoodVeryHappy:
		return 4
	default:
		return -1
	}
}

// IsValid reports whether m is one of the known moods
func (m Mood) IsValid() bool {
	return m.rank() >= 0
}

// Normalize returns m, or Neutral when m is not a known mood
func (m Mood) Normalize() Mood {
	if !m.IsValid() {
		return MoodNeutral
	}
	return m
}

// MoodPolarity selects the numeric convention used to turn a mood into a number.
// Every conversion names its polarity; values from different polarities must never
// be compared or averaged together.
type MoodPolarity int

const (
	// PolarityRisk maps Very Happy to 0 and Very Sad to 4 (higher = worse)
	PolarityRisk MoodPolarity = iota
	// PolarityWellbeing maps Very Sad to 0 and Very Happy to 4 (higher = better)
	PolarityWellbeing
	// PolarityRating maps Very Sad to 1 and Very Happy to 5 (higher = better)
	PolarityRating
)

// String returns the name of the polarity
func (p MoodPolarity) String() string {
	switch p {
	case PolarityRisk:
		return "risk"
	case PolarityWellbeing:
		return "wellbeing"
	case PolarityRating:
		return "rating"
	default:
		return "unknown"
	}
}

// Bounds returns the smallest and largest value the polarity produces
func (p MoodPolarity) Bounds() (min, max int) {
	if p == PolarityRating {
		return 1, 5
	}
	return 0, 4
}

// MaxStep is the largest possible difference between two consecutive values
func (p MoodPolarity) MaxStep() int {
	lo, hi := p.Bounds()
	return hi - lo
}

// Value converts a mood to a number under the polarity.
// Unknown moods are treated as Neutral.
func (p MoodPolarity) Value(m Mood) int {
	r := m.Normalize().rank()
	switch p {
	case PolarityRisk:
		return 4 - r
	case PolarityRating:
		return r + 1
	default:
		return r
	}
}

// ActivityName is an entry in the closed activity catalog
type ActivityName string

const (
	ActivityExercise    ActivityName = "exercise"
	ActivityMeditation  ActivityName = "meditation"
	ActivityReading     ActivityName = "reading"
	ActivitySocializing ActivityName = "socializing"
	ActivityWork        ActivityName = "work"
	ActivityOutdoors    ActivityName = "outdoors"
	ActivityMusic       ActivityName = "music"
	ActivityGaming      ActivityName = "gaming"
	ActivityCooking     ActivityName = "cooking"
	ActivityTherapy     ActivityName = "therapy"
	ActivityJournaling  ActivityName = "journaling"
	ActivityOther       ActivityName = "other"
)

var activityCatalog = map[ActivityName]bool{
	ActivityExercise:    true,
	ActivityMeditation:  true,
	ActivityReading:     true,
	ActivitySocializing: true,
	ActivityWork:        true,
	ActivityOutdoors:    true,
	ActivityMusic:       true,
	ActivityGaming:      true,
	ActivityCooking:     true,
	ActivityTherapy:     true,
	ActivityJournaling:  true,
	ActivityOther:       true,
}

// IsValid reports whether the name belongs to the activity catalog
func (a ActivityName) IsValid() bool {
	return activityCatalog[a]
}
