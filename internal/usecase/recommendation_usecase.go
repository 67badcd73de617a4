package usecase

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"course-compass/internal/domain/catalog"
	"course-compass/internal/domain/recommend"
	"course-compass/internal/domain/user"
	"course-compass/internal/repository"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

const (
	// query-level candidate caps; ranking never sees more than this many
	maxCourseCandidates = 10
	maxPathCandidates   = 5

	recommendationCacheTTL = 5 * time.Minute
)

type recommendationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

func courseRecsCacheKey(userID uuid.UUID) string {
	return "rec:courses:" + userID.String()
}

func pathRecsCacheKey(userID uuid.UUID) string {
	return "rec:paths:" + userID.String()
}

type RecommendationUsecase interface {
	RecommendCourses(ctx context.Context, userID uuid.UUID) ([]catalog.Course, error)
	RecommendLearningPaths(ctx context.Context, userID uuid.UUID) ([]catalog.LearningPath, error)
}

type Recommendation struct {
	users   user.Repository
	courses repository.CourseRepository
	paths   repository.LearningPathRepository
	prefs   PreferenceUsecase
	cache   recommendationCache
	weights recommend.Weights
	logger  *log.Logger

	now func() time.Time
}

func NewRecommendationUsecase(
	users user.Repository,
	courses repository.CourseRepository,
	paths repository.LearningPathRepository,
	prefs PreferenceUsecase,
	cache recommendationCache,
	logger *log.Logger,
) *Recommendation {
	return &Recommendation{
		users:   users,
		courses: courses,
		paths:   paths,
		prefs:   prefs,
		cache:   cache,
		weights: recommend.DefaultWeights(),
		logger:  logger,
		now:     time.Now,
	}
}

// RecommendCourses returns up to 10 published courses the user is not
// enrolled in, in the user's interest categories, ordered by relevance.
// Scores are transient; only the ordering survives.
func (u *Recommendation) RecommendCourses(ctx context.Context, userID uuid.UUID) ([]catalog.Course, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	if u.cache != nil {
		var cached []catalog.Course
		if ok, err := u.cache.GetJSON(ctx, courseRecsCacheKey(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		u.logf("[Recs] User load error user=%s err=%v", userID, err)
		return nil, ErrInternal
	}

	enrolled, err := u.courses.EnrolledCourseIDs(ctx, userID)
	if err != nil {
		u.logf("[Recs] Enrollments load error user=%s err=%v", userID, err)
		return nil, ErrInternal
	}

	prof, err := u.prefs.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := u.courses.ListCandidates(ctx, repository.CourseCandidateFilter{
		ExcludeIDs:  enrolled,
		CategoryIDs: prof.InterestCategoryIDs(),
		Status:      catalog.StatusPublished,
		Limit:       maxCourseCandidates,
	})
	if err != nil {
		u.logf("[Recs] Course candidates error user=%s err=%v", userID, err)
		return nil, ErrInternal
	}

	now := u.now()
	type scored struct {
		course catalog.Course
		score  float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		sig := recommend.CourseSignals{
			StudentsEnrolled: c.StudentsEnrolled,
			InstructorRating: c.InstructorRating,
			CreatedAt:        c.CreatedAt,
		}
		ranked = append(ranked, scored{
			course: c,
			score:  recommend.CourseScore(sig, prof.InterestWeight(c.CategoryID), now, u.weights),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]catalog.Course, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.course)
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, courseRecsCacheKey(userID), out, recommendationCacheTTL)
	}

	return out, nil
}

// RecommendLearningPaths returns up to 5 published paths the user is not
// already active in, matching interest categories and preferred level
// exactly, ordered by relevance.
func (u *Recommendation) RecommendLearningPaths(ctx context.Context, userID uuid.UUID) ([]catalog.LearningPath, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	if u.cache != nil {
		var cached []catalog.LearningPath
		if ok, err := u.cache.GetJSON(ctx, pathRecsCacheKey(userID), &cached); err == nil && ok {
			return cached, nil
		}
	}

	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		u.logf("[Recs] User load error user=%s err=%v", userID, err)
		return nil, ErrInternal
	}

	prof, err := u.prefs.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := u.paths.ListCandidates(ctx, repository.PathCandidateFilter{
		ExcludeIDs:  prof.ActivePathIDs(),
		CategoryIDs: prof.InterestCategoryIDs(),
		Level:       prof.PreferredLevel,
		Status:      catalog.StatusPublished,
		Limit:       maxPathCandidates,
	})
	if err != nil {
		u.logf("[Recs] Path candidates error user=%s err=%v", userID, err)
		return nil, ErrInternal
	}

	now := u.now()
	type scored struct {
		path  catalog.LearningPath
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		sig := recommend.PathSignals{
			Popularity:     p.Popularity,
			EstimatedHours: p.EstimatedHours,
			CreatedAt:      p.CreatedAt,
		}
		ranked = append(ranked, scored{
			path:  p,
			score: recommend.PathScore(sig, prof.InterestWeight(p.CategoryID), prof.AvailableHoursPerWeek, now, u.weights),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]catalog.LearningPath, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, s.path)
	}

	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, pathRecsCacheKey(userID), out, recommendationCacheTTL)
	}

	return out, nil
}

func (u *Recommendation) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
