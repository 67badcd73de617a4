package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"course-compass/internal/domain/catalog"
	"course-compass/internal/domain/preference"
	"course-compass/internal/repository"
	"course-compass/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrPreferenceNotFound = errors.New("preference not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// FallbackCategoryName seeds the interest set for users with no enrollment
// history. When the category does not exist the interest set stays empty;
// that is not an error.
const FallbackCategoryName = "Web Development"

type preferenceCache interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type PreferenceUsecase interface {
	EnsureProfile(ctx context.Context, userID uuid.UUID) (preference.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (preference.Profile, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, in PreferenceSettingsInput) (preference.Profile, error)
	TrackActivity(ctx context.Context, userID, courseID uuid.UUID, action string) (preference.Interest, error)
}

type PreferenceSettingsInput struct {
	PreferredLevel string
	LearningStyle  string
	HoursPerWeek   float64
	CareerGoals    []string
}

type Preference struct {
	prefs      repository.PreferenceRepository
	courses    repository.CourseRepository
	categories repository.CategoryRepository
	cache      preferenceCache
	logger     *log.Logger
}

func NewPreferenceUsecase(
	prefs repository.PreferenceRepository,
	courses repository.CourseRepository,
	categories repository.CategoryRepository,
	cache preferenceCache,
	logger *log.Logger,
) *Preference {
	return &Preference{prefs: prefs, courses: courses, categories: categories, cache: cache, logger: logger}
}

// EnsureProfile returns the user's preference profile, lazily creating a
// default one on first touch. The default interest distribution is the
// normalized per-category frequency of the user's enrolled courses.
func (u *Preference) EnsureProfile(ctx context.Context, userID uuid.UUID) (preference.Profile, error) {
	if userID == uuid.Nil {
		return preference.Profile{}, ErrUnauthorized
	}

	p, err := u.prefs.FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrPreferenceNotFound) {
		u.logf("[Prefs] Load error user=%s err=%v", userID, err)
		return preference.Profile{}, ErrInternal
	}

	// Narrow the double-create window across instances; the unique index
	// on user_id is still the authority if two inits slip through.
	if u.cache != nil {
		_, _ = u.cache.SetIfNotExists(ctx, "prefs:init:"+userID.String(), "1", 30*time.Second)
	}

	enrolled, err := u.courses.EnrolledCourseIDs(ctx, userID)
	if err != nil {
		u.logf("[Prefs] Enrollments load error user=%s err=%v", userID, err)
		return preference.Profile{}, ErrInternal
	}

	p, err = u.buildDefault(ctx, userID, enrolled)
	if err != nil {
		return preference.Profile{}, err
	}

	created, err := u.prefs.Create(ctx, p)
	if err != nil {
		u.logf("[Prefs] Create error user=%s err=%v", userID, err)
		return preference.Profile{}, ErrInternal
	}

	u.logf("[Prefs] Default profile created user=%s interests=%d", userID, len(created.Interests))
	return created, nil
}

func (u *Preference) GetProfile(ctx context.Context, userID uuid.UUID) (preference.Profile, error) {
	return u.EnsureProfile(ctx, userID)
}

func (u *Preference) UpdateSettings(ctx context.Context, userID uuid.UUID, in PreferenceSettingsInput) (preference.Profile, error) {
	p, err := u.EnsureProfile(ctx, userID)
	if err != nil {
		return preference.Profile{}, err
	}

	level := p.PreferredLevel
	if in.PreferredLevel != "" {
		if !preference.ValidLevel(in.PreferredLevel) {
			return preference.Profile{}, ErrInvalidInput
		}
		level = in.PreferredLevel
	}
	style := p.LearningStyle
	if in.LearningStyle != "" {
		if !preference.ValidLearningStyle(in.LearningStyle) {
			return preference.Profile{}, ErrInvalidInput
		}
		style = in.LearningStyle
	}
	hours := p.AvailableHoursPerWeek
	if in.HoursPerWeek > 0 {
		hours = in.HoursPerWeek
	}
	goals := p.CareerGoals
	if in.CareerGoals != nil {
		goals = in.CareerGoals
	}

	if err := u.prefs.UpdateSettings(ctx, userID, level, style, hours, goals); err != nil {
		u.logf("[Prefs] Settings update error user=%s err=%v", userID, err)
		return preference.Profile{}, ErrInternal
	}

	u.invalidateRecommendations(ctx, userID)

	updated, err := u.prefs.FindByUserID(ctx, userID)
	if err != nil {
		return preference.Profile{}, ErrInternal
	}
	return updated, nil
}

// TrackActivity adjusts the interest weight of the course's category by the
// action's delta. Unknown actions fall into the default weak-positive
// increment. Calls are not idempotent: every call is a distinct event.
func (u *Preference) TrackActivity(ctx context.Context, userID, courseID uuid.UUID, action string) (preference.Interest, error) {
	if userID == uuid.Nil {
		return preference.Interest{}, ErrUnauthorized
	}
	if courseID == uuid.Nil {
		return preference.Interest{}, ErrCourseNotFound
	}

	p, err := u.EnsureProfile(ctx, userID)
	if err != nil {
		return preference.Interest{}, err
	}

	course, err := u.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return preference.Interest{}, ErrCourseNotFound
		}
		u.logf("[Prefs] Course load error course=%s err=%v", courseID, err)
		return preference.Interest{}, ErrInternal
	}

	in := p.BumpInterest(course.CategoryID, preference.ActionIncrement(action))
	if err := u.prefs.SetInterestWeight(ctx, userID, in.CategoryID, in.Weight); err != nil {
		u.logf("[Prefs] Interest persist error user=%s category=%s err=%v", userID, in.CategoryID, err)
		return preference.Interest{}, ErrInternal
	}

	u.invalidateRecommendations(ctx, userID)
	ws.NotifyPreferencesUpdated(userID.String(), action)

	return in, nil
}

func (u *Preference) buildDefault(ctx context.Context, userID uuid.UUID, enrolled []uuid.UUID) (preference.Profile, error) {
	p := preference.New(userID)

	if len(enrolled) == 0 {
		cat, err := u.categories.FindByName(ctx, FallbackCategoryName)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return p, nil
			}
			u.logf("[Prefs] Fallback category load error err=%v", err)
			return preference.Profile{}, ErrInternal
		}
		p.Interests = append(p.Interests, preference.Interest{CategoryID: cat.ID, Weight: 1})
		return p, nil
	}

	courses, err := u.courses.FindByIDs(ctx, enrolled)
	if err != nil {
		u.logf("[Prefs] Enrolled courses load error user=%s err=%v", userID, err)
		return preference.Profile{}, ErrInternal
	}

	p.Interests = normalizedInterests(courses)
	return p, nil
}

// normalizedInterests derives a frequency distribution over categories; the
// weights sum to 1 across the user's enrolled courses.
func normalizedInterests(courses []catalog.Course) []preference.Interest {
	if len(courses) == 0 {
		return []preference.Interest{}
	}

	counts := make(map[uuid.UUID]int, len(courses))
	for _, c := range courses {
		counts[c.CategoryID]++
	}

	total := float64(len(courses))
	out := make([]preference.Interest, 0, len(counts))
	for cat, n := range counts {
		out = append(out, preference.Interest{CategoryID: cat, Weight: float64(n) / total})
	}
	return out
}

func (u *Preference) invalidateRecommendations(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Delete(ctx, courseRecsCacheKey(userID))
	_ = u.cache.Delete(ctx, pathRecsCacheKey(userID))
}

func (u *Preference) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
