package preference

import (
	"time"

	"github.com/google/uuid"
)

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

const (
	StyleVisual  = "Visual"
	StyleReading = "Reading"
	StyleHandsOn = "Hands-on"
	StyleMixed   = "Mixed"
)

const (
	// MaxInterestWeight bounds repeated updates; first-time interests may
	// start above their action delta (base 1 + delta) and are not clamped
	// at creation.
	MaxInterestWeight = 5.0

	NewInterestBase = 1.0
)

const (
	DefaultCareerGoal   = "Web Developer"
	DefaultHoursPerWeek = 10.0
)

type Interest struct {
	CategoryID uuid.UUID
	Weight     float64
}

type PathEnrollment struct {
	PathID       uuid.UUID
	Progress     float64
	IsActive     bool
	StartedAt    time.Time
	LastActivity time.Time
}

// Profile is the per-user preference aggregate. Interests are keyed by
// category id and path enrollments by path id; at most one entry per key.
type Profile struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	Interests             []Interest
	PreferredLevel        string
	CareerGoals           []string
	LearningPaths         []PathEnrollment
	LearningStyle         string
	AvailableHoursPerWeek float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func New(userID uuid.UUID) Profile {
	return Profile{
		ID:                    uuid.New(),
		UserID:                userID,
		Interests:             []Interest{},
		PreferredLevel:        LevelBeginner,
		CareerGoals:           []string{DefaultCareerGoal},
		LearningPaths:         []PathEnrollment{},
		LearningStyle:         StyleMixed,
		AvailableHoursPerWeek: DefaultHoursPerWeek,
	}
}

// InterestWeight returns the weight for a category, or 0 when the user has
// no interest entry for it.
func (p Profile) InterestWeight(categoryID uuid.UUID) float64 {
	for _, in := range p.Interests {
		if in.CategoryID == categoryID {
			return in.Weight
		}
	}
	return 0
}

func (p Profile) InterestCategoryIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(p.Interests))
	for _, in := range p.Interests {
		out = append(out, in.CategoryID)
	}
	return out
}

// BumpInterest applies an action delta to the category's interest. An
// existing entry is incremented and clamped to MaxInterestWeight; a new
// entry starts at NewInterestBase + delta without clamping. The returned
// Interest is the resulting entry.
func (p *Profile) BumpInterest(categoryID uuid.UUID, delta float64) Interest {
	for i := range p.Interests {
		if p.Interests[i].CategoryID != categoryID {
			continue
		}
		w := p.Interests[i].Weight + delta
		if w > MaxInterestWeight {
			w = MaxInterestWeight
		}
		p.Interests[i].Weight = w
		return p.Interests[i]
	}

	in := Interest{CategoryID: categoryID, Weight: NewInterestBase + delta}
	p.Interests = append(p.Interests, in)
	return in
}

// ActivePathIDs lists paths the user is currently enrolled in; used to
// exclude them from recommendation candidates.
func (p Profile) ActivePathIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(p.LearningPaths))
	for _, lp := range p.LearningPaths {
		if lp.IsActive {
			out = append(out, lp.PathID)
		}
	}
	return out
}

func (p Profile) PathEnrollment(pathID uuid.UUID) (PathEnrollment, bool) {
	for _, lp := range p.LearningPaths {
		if lp.PathID == pathID {
			return lp, true
		}
	}
	return PathEnrollment{}, false
}

func ClampProgress(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func ValidLevel(level string) bool {
	switch level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func ValidLearningStyle(style string) bool {
	switch style {
	case StyleVisual, StyleReading, StyleHandsOn, StyleMixed:
		return true
	}
	return false
}
