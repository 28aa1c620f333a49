package extractors

// Mood label vocabulary
const (
	EnergyHigh   = "High Energy"
	EnergyMedium = "Medium Energy"
	EnergyLow    = "Low Energy"

	BrightnessBright   = "Bright"
	BrightnessBalanced = "Balanced"
	BrightnessDark     = "Dark"

	StabilityStable   = "Stable"
	StabilityModerate = "Moderate"
	StabilityUnstable = "Unstable"
)

// MoodIndicators holds the rule-derived categorical mood labels
type MoodIndicators struct {
	EnergyLevel       string `json:"energy_level"`
	Brightness        string `json:"brightness"`
	RhythmicStability string `json:"rhythmic_stability"`
}

// MoodThresholds contains the fixed cutoffs for mood classification. They
// are configuration, tuned once, never recomputed per file.
type MoodThresholds struct {
	TempoHigh float64 `json:"tempo_high" mapstructure:"tempo_high"`
	TempoLow  float64 `json:"tempo_low" mapstructure:"tempo_low"`
	RMSHigh   float64 `json:"rms_high" mapstructure:"rms_high"`
	RMSLow    float64 `json:"rms_low" mapstructure:"rms_low"`

	CentroidBright float64 `json:"centroid_bright" mapstructure:"centroid_bright"`
	CentroidDark   float64 `json:"centroid_dark" mapstructure:"centroid_dark"`

	RegularityStable   float64 `json:"regularity_stable" mapstructure:"regularity_stable"`
	RegularityUnstable float64 `json:"regularity_unstable" mapstructure:"regularity_unstable"`
}

// DefaultMoodThresholds returns the calibrated default cutoffs. The centroid
// bands follow the common perceptual brightness split at 1.5/3 kHz.
func DefaultMoodThresholds() MoodThresholds {
	return MoodThresholds{
		TempoHigh:          120,
		TempoLow:           90,
		RMSHigh:            0.15,
		RMSLow:             0.05,
		CentroidBright:     3000,
		CentroidDark:       1500,
		RegularityStable:   0.75,
		RegularityUnstable: 0.4,
	}
}

// moodRule pairs a predicate with the label it selects. Rules are evaluated
// in order; the first match wins.
type moodRule struct {
	match func() bool
	label string
}

func evaluate(rules []moodRule, fallback string) string {
	for _, rule := range rules {
		if rule.match() {
			return rule.label
		}
	}
	return fallback
}

// MoodClassifier maps numeric features to categorical mood labels via fixed
// threshold rules. Pure function of its inputs: no side effects, no failure
// mode, always produces a full label triple.
type MoodClassifier struct {
	thresholds MoodThresholds
}

// NewMoodClassifier creates a classifier with the given cutoffs
func NewMoodClassifier(thresholds MoodThresholds) *MoodClassifier {
	return &MoodClassifier{thresholds: thresholds}
}

// Classify derives the mood label triple from tempo, energy, brightness and
// beat regularity
func (c *MoodClassifier) Classify(tempoBPM, rmsMean, centroidMean, beatRegularity float64) MoodIndicators {
	t := c.thresholds

	energy := evaluate([]moodRule{
		{func() bool { return tempoBPM >= t.TempoHigh && rmsMean >= t.RMSHigh }, EnergyHigh},
		{func() bool { return tempoBPM < t.TempoLow && rmsMean < t.RMSLow }, EnergyLow},
	}, EnergyMedium)

	brightness := evaluate([]moodRule{
		{func() bool { return centroidMean >= t.CentroidBright }, BrightnessBright},
		{func() bool { return centroidMean < t.CentroidDark }, BrightnessDark},
	}, BrightnessBalanced)

	stability := evaluate([]moodRule{
		{func() bool { return beatRegularity >= t.RegularityStable }, StabilityStable},
		{func() bool { return beatRegularity < t.RegularityUnstable }, StabilityUnstable},
	}, StabilityModerate)

	return MoodIndicators{
		EnergyLevel:       energy,
		Brightness:        brightness,
		RhythmicStability: stability,
	}
}
