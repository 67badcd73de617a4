package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"course-compass/internal/domain/preference"
	"course-compass/internal/repository"
	"course-compass/internal/ws"

	"github.com/google/uuid"
)

var (
	ErrLearningPathNotFound = errors.New("learning path not found")
	ErrNotEnrolledInPath    = errors.New("not enrolled in learning path")
)

type LearningPathUsecase interface {
	Enroll(ctx context.Context, userID, pathID uuid.UUID) (preference.PathEnrollment, error)
	UpdateProgress(ctx context.Context, userID, pathID uuid.UUID, progress float64) (preference.PathEnrollment, error)
}

type pathCache interface {
	Delete(ctx context.Context, key string) error
}

type LearningPath struct {
	paths  repository.LearningPathRepository
	prefs  repository.PreferenceRepository
	prefUC PreferenceUsecase
	cache  pathCache
	logger *log.Logger

	now func() time.Time
}

func NewLearningPathUsecase(
	paths repository.LearningPathRepository,
	prefs repository.PreferenceRepository,
	prefUC PreferenceUsecase,
	cache pathCache,
	logger *log.Logger,
) *LearningPath {
	return &LearningPath{paths: paths, prefs: prefs, prefUC: prefUC, cache: cache, logger: logger, now: time.Now}
}

func (u *LearningPath) invalidateRecommendations(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Delete(ctx, courseRecsCacheKey(userID))
	_ = u.cache.Delete(ctx, pathRecsCacheKey(userID))
}

// Enroll records a path enrollment on the user's profile. Re-enrolling in
// the same path reactivates the existing record instead of duplicating it.
func (u *LearningPath) Enroll(ctx context.Context, userID, pathID uuid.UUID) (preference.PathEnrollment, error) {
	if userID == uuid.Nil {
		return preference.PathEnrollment{}, ErrUnauthorized
	}

	path, err := u.paths.FindByID(ctx, pathID)
	if err != nil {
		if errors.Is(err, repository.ErrLearningPathNotFound) {
			return preference.PathEnrollment{}, ErrLearningPathNotFound
		}
		u.logf("[Paths] Path load error path=%s err=%v", pathID, err)
		return preference.PathEnrollment{}, ErrInternal
	}

	prof, err := u.prefUC.EnsureProfile(ctx, userID)
	if err != nil {
		return preference.PathEnrollment{}, err
	}

	now := u.now().UTC()
	pe, existed := prof.PathEnrollment(pathID)
	if !existed {
		pe = preference.PathEnrollment{
			PathID:    pathID,
			Progress:  0,
			StartedAt: now,
		}
	}
	pe.IsActive = true
	pe.LastActivity = now

	if err := u.prefs.UpsertPathEnrollment(ctx, userID, pe); err != nil {
		u.logf("[Paths] Enrollment persist error user=%s path=%s err=%v", userID, pathID, err)
		return preference.PathEnrollment{}, ErrInternal
	}

	// path enrollment is an enroll signal for the path's category
	in := prof.BumpInterest(path.CategoryID, preference.ActionIncrement(preference.ActionEnroll))
	if err := u.prefs.SetInterestWeight(ctx, userID, in.CategoryID, in.Weight); err != nil {
		u.logf("[Paths] Interest persist error user=%s category=%s err=%v", userID, in.CategoryID, err)
		return preference.PathEnrollment{}, ErrInternal
	}

	u.invalidateRecommendations(ctx, userID)
	ws.NotifyPreferencesUpdated(userID.String(), preference.ActionEnroll)

	return pe, nil
}

// UpdateProgress clamps progress to [0,100]. Crossing 100 fires a
// "complete" interest event for the path's category; the enrollment record
// stays active because completed paths are not archived automatically.
func (u *LearningPath) UpdateProgress(ctx context.Context, userID, pathID uuid.UUID, progress float64) (preference.PathEnrollment, error) {
	if userID == uuid.Nil {
		return preference.PathEnrollment{}, ErrUnauthorized
	}

	path, err := u.paths.FindByID(ctx, pathID)
	if err != nil {
		if errors.Is(err, repository.ErrLearningPathNotFound) {
			return preference.PathEnrollment{}, ErrLearningPathNotFound
		}
		u.logf("[Paths] Path load error path=%s err=%v", pathID, err)
		return preference.PathEnrollment{}, ErrInternal
	}

	prof, err := u.prefUC.EnsureProfile(ctx, userID)
	if err != nil {
		return preference.PathEnrollment{}, err
	}

	pe, ok := prof.PathEnrollment(pathID)
	if !ok {
		return preference.PathEnrollment{}, ErrNotEnrolledInPath
	}

	prev := pe.Progress
	pe.Progress = preference.ClampProgress(progress)
	pe.LastActivity = u.now().UTC()

	if err := u.prefs.SetPathProgress(ctx, userID, pathID, pe.Progress, pe.LastActivity); err != nil {
		if errors.Is(err, repository.ErrPathEnrollmentNotFound) {
			return preference.PathEnrollment{}, ErrNotEnrolledInPath
		}
		u.logf("[Paths] Progress persist error user=%s path=%s err=%v", userID, pathID, err)
		return preference.PathEnrollment{}, ErrInternal
	}

	if prev < 100 && pe.Progress >= 100 {
		in := prof.BumpInterest(path.CategoryID, preference.ActionIncrement(preference.ActionComplete))
		if err := u.prefs.SetInterestWeight(ctx, userID, in.CategoryID, in.Weight); err != nil {
			u.logf("[Paths] Interest persist error user=%s category=%s err=%v", userID, in.CategoryID, err)
			return preference.PathEnrollment{}, ErrInternal
		}
		u.invalidateRecommendations(ctx, userID)
		ws.NotifyPreferencesUpdated(userID.String(), preference.ActionComplete)
	}

	return pe, nil
}

func (u *LearningPath) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}
