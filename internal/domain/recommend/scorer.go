package recommend

import "time"

// Weights are the relevance-score term multipliers. The interest weight is
// always carried at full strength; these scale the secondary signals.
type Weights struct {
	Popularity float64
	Quality    float64
	Freshness  float64
}

func DefaultWeights() Weights {
	return Weights{
		Popularity: 0.3,
		Quality:    0.2,
		Freshness:  0.1,
	}
}

// quality ratio used when a course has no instructor rating yet
const unratedQualityRatio = 0.5

const freshnessWindowMonths = 12.0

// CourseSignals carries the per-course inputs to relevance scoring.
type CourseSignals struct {
	StudentsEnrolled int
	InstructorRating *float64 // nil when the instructor has no rating yet
	CreatedAt        time.Time
}

// PathSignals carries the per-path inputs to relevance scoring.
type PathSignals struct {
	Popularity     int
	EstimatedHours float64
	CreatedAt      time.Time
}

// CourseScore computes the composite relevance score for a candidate
// course. The result is unbounded and only meaningful for relative
// ordering. The popularity term is deliberately uncapped: very popular
// courses may contribute more than the nominal popularity weight.
func CourseScore(sig CourseSignals, interestWeight float64, now time.Time, w Weights) float64 {
	score := interestWeight

	score += float64(sig.StudentsEnrolled) / 100.0 * w.Popularity

	quality := unratedQualityRatio
	if sig.InstructorRating != nil {
		quality = *sig.InstructorRating / 5.0
	}
	score += quality * w.Quality

	score += Freshness(sig.CreatedAt, now) * w.Freshness

	return score
}

// PathScore computes the composite relevance score for a candidate
// learning path. The time-fit term saturates at 1 once the user's weekly
// availability covers the path's estimated hours.
func PathScore(sig PathSignals, interestWeight, hoursPerWeek float64, now time.Time, w Weights) float64 {
	score := interestWeight

	score += float64(sig.Popularity) / 100.0 * w.Popularity

	// availability at or above the estimated effort saturates the term
	fit := 1.0
	if sig.EstimatedHours > 0 {
		fit = hoursPerWeek / sig.EstimatedHours
		if fit > 1 {
			fit = 1
		}
		if fit < 0 {
			fit = 0
		}
	}
	score += fit * w.Quality

	score += Freshness(sig.CreatedAt, now) * w.Freshness

	return score
}

// Freshness decays linearly to 0 as age approaches 12 months. Entities a
// year or older contribute nothing.
func Freshness(createdAt, now time.Time) float64 {
	ageMonths := now.Sub(createdAt).Hours() / 24 / 30
	f := 1 - ageMonths/freshnessWindowMonths
	if f < 0 {
		return 0
	}
	return f
}
