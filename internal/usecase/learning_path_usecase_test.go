package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"course-compass/internal/domain/catalog"
	"course-compass/internal/domain/preference"

	"github.com/google/uuid"
)

func newLearningPathFixture(t *testing.T, prof preference.Profile, path catalog.LearningPath) (*LearningPath, *mockPrefRepo, *mockCache) {
	t.Helper()

	prefs := &mockPrefRepo{profile: &prof}
	paths := &mockPathRepo{paths: map[uuid.UUID]catalog.LearningPath{path.ID: path}}
	cache := newMockCache()

	prefUC := NewPreferenceUsecase(prefs, &mockCourseRepo{}, &mockCategoryRepo{}, cache, nil)
	uc := NewLearningPathUsecase(paths, prefs, prefUC, cache, nil)
	uc.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }
	return uc, prefs, cache
}

func TestLearningPathUsecase_Enroll_UnknownPath(t *testing.T) {
	prof := preference.New(uuid.New())
	uc, prefs, _ := newLearningPathFixture(t, prof, catalog.LearningPath{ID: uuid.New()})

	_, err := uc.Enroll(context.Background(), prof.UserID, uuid.New())
	if !errors.Is(err, ErrLearningPathNotFound) {
		t.Fatalf("expected ErrLearningPathNotFound, got %v", err)
	}
	if prefs.enrollmentWrites != 0 {
		t.Fatalf("unknown path must not write enrollments, got %d", prefs.enrollmentWrites)
	}
}

func TestLearningPathUsecase_Enroll_CreatesActiveRecord(t *testing.T) {
	cat := uuid.New()
	path := catalog.LearningPath{ID: uuid.New(), CategoryID: cat, Status: catalog.StatusPublished}
	prof := preference.New(uuid.New())

	uc, prefs, _ := newLearningPathFixture(t, prof, path)

	pe, err := uc.Enroll(context.Background(), prof.UserID, path.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !pe.IsActive {
		t.Fatal("new enrollment must be active")
	}
	if pe.Progress != 0 {
		t.Fatalf("new enrollment progress = %v, want 0", pe.Progress)
	}
	if pe.StartedAt.IsZero() || pe.LastActivity.IsZero() {
		t.Fatal("timestamps must be set on enroll")
	}

	// enrolling is an interest signal for the path's category
	w := prefs.profile.Interests
	if len(w) != 1 || w[0].CategoryID != cat {
		t.Fatalf("expected interest entry for path category, got %v", w)
	}
	if math.Abs(w[0].Weight-1.5) > 1e-9 {
		t.Fatalf("interest weight = %v, want 1.5", w[0].Weight)
	}
}

func TestLearningPathUsecase_Enroll_ReenrollReactivatesWithoutDuplicate(t *testing.T) {
	cat := uuid.New()
	path := catalog.LearningPath{ID: uuid.New(), CategoryID: cat}
	started := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	prof := preference.New(uuid.New())
	prof.LearningPaths = []preference.PathEnrollment{{
		PathID:    path.ID,
		Progress:  40,
		IsActive:  false,
		StartedAt: started,
	}}

	uc, prefs, _ := newLearningPathFixture(t, prof, path)

	pe, err := uc.Enroll(context.Background(), prof.UserID, path.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !pe.IsActive {
		t.Fatal("re-enroll must reactivate")
	}
	if !pe.StartedAt.Equal(started) {
		t.Fatalf("re-enroll must keep original StartedAt, got %v", pe.StartedAt)
	}
	if pe.Progress != 40 {
		t.Fatalf("re-enroll must keep progress, got %v", pe.Progress)
	}
	if len(prefs.profile.LearningPaths) != 1 {
		t.Fatalf("re-enroll must not duplicate the record, got %d", len(prefs.profile.LearningPaths))
	}
}

func TestLearningPathUsecase_UpdateProgress_NotEnrolled(t *testing.T) {
	path := catalog.LearningPath{ID: uuid.New()}
	prof := preference.New(uuid.New())

	uc, _, _ := newLearningPathFixture(t, prof, path)

	_, err := uc.UpdateProgress(context.Background(), prof.UserID, path.ID, 50)
	if !errors.Is(err, ErrNotEnrolledInPath) {
		t.Fatalf("expected ErrNotEnrolledInPath, got %v", err)
	}
}

func TestLearningPathUsecase_UpdateProgress_ClampsInput(t *testing.T) {
	path := catalog.LearningPath{ID: uuid.New(), CategoryID: uuid.New()}
	prof := preference.New(uuid.New())
	prof.LearningPaths = []preference.PathEnrollment{{PathID: path.ID, Progress: 10, IsActive: true}}

	uc, _, _ := newLearningPathFixture(t, prof, path)

	pe, err := uc.UpdateProgress(context.Background(), prof.UserID, path.ID, -20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pe.Progress != 0 {
		t.Fatalf("progress = %v, want clamp to 0", pe.Progress)
	}
}

func TestLearningPathUsecase_UpdateProgress_CompletionFiresOnce(t *testing.T) {
	cat := uuid.New()
	path := catalog.LearningPath{ID: uuid.New(), CategoryID: cat}

	prof := preference.New(uuid.New())
	prof.Interests = []preference.Interest{{CategoryID: cat, Weight: 2.0}}
	prof.LearningPaths = []preference.PathEnrollment{{PathID: path.ID, Progress: 90, IsActive: true}}

	uc, prefs, _ := newLearningPathFixture(t, prof, path)

	pe, err := uc.UpdateProgress(context.Background(), prof.UserID, path.ID, 120)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if pe.Progress != 100 {
		t.Fatalf("progress = %v, want clamp to 100", pe.Progress)
	}
	if !pe.IsActive {
		t.Fatal("completed enrollment stays active")
	}
	if math.Abs(prefs.profile.Interests[0].Weight-3.0) > 1e-9 {
		t.Fatalf("completion bonus weight = %v, want 3.0", prefs.profile.Interests[0].Weight)
	}

	// repeating the update from 100 must not award the bonus again
	if _, err := uc.UpdateProgress(context.Background(), prof.UserID, path.ID, 100); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if math.Abs(prefs.profile.Interests[0].Weight-3.0) > 1e-9 {
		t.Fatalf("completion bonus must fire once, weight = %v", prefs.profile.Interests[0].Weight)
	}
}
