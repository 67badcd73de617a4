package usecase

import (
	"context"
	"encoding/json"
	"time"

	"course-compass/internal/domain/catalog"
	"course-compass/internal/domain/preference"
	"course-compass/internal/domain/user"
	"course-compass/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	users map[uuid.UUID]user.User
}

func (m *mockUserRepo) Create(context.Context, user.User) error { return nil }
func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}
func (m *mockUserRepo) GetByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m *mockUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }

type mockCourseRepo struct {
	courses    map[uuid.UUID]catalog.Course
	candidates []catalog.Course
	enrolled   []uuid.UUID

	lastCandidateFilter repository.CourseCandidateFilter
}

func (m *mockCourseRepo) FindByID(_ context.Context, id uuid.UUID) (catalog.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return catalog.Course{}, repository.ErrCourseNotFound
}

func (m *mockCourseRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Course, error) {
	out := make([]catalog.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) ListCandidates(_ context.Context, f repository.CourseCandidateFilter) ([]catalog.Course, error) {
	m.lastCandidateFilter = f
	return m.candidates, nil
}

func (m *mockCourseRepo) EnrolledCourseIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.enrolled, nil
}

func (m *mockCourseRepo) Enroll(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type mockCategoryRepo struct {
	byName map[string]catalog.Category
}

func (m *mockCategoryRepo) FindByID(context.Context, uuid.UUID) (catalog.Category, error) {
	return catalog.Category{}, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepo) FindByName(_ context.Context, name string) (catalog.Category, error) {
	if c, ok := m.byName[name]; ok {
		return c, nil
	}
	return catalog.Category{}, repository.ErrCategoryNotFound
}

type mockPathRepo struct {
	paths      map[uuid.UUID]catalog.LearningPath
	candidates []catalog.LearningPath

	lastCandidateFilter repository.PathCandidateFilter
}

func (m *mockPathRepo) FindByID(_ context.Context, id uuid.UUID) (catalog.LearningPath, error) {
	if p, ok := m.paths[id]; ok {
		return p, nil
	}
	return catalog.LearningPath{}, repository.ErrLearningPathNotFound
}

func (m *mockPathRepo) ListCandidates(_ context.Context, f repository.PathCandidateFilter) ([]catalog.LearningPath, error) {
	m.lastCandidateFilter = f
	return m.candidates, nil
}

// mockPrefRepo mimics the Postgres implementation closely enough for the
// usecases: one profile row per user, interests keyed by category, path
// enrollments keyed by path.
type mockPrefRepo struct {
	profile *preference.Profile

	createCalls      int
	interestWrites   int
	enrollmentWrites int
}

func (m *mockPrefRepo) FindByUserID(_ context.Context, userID uuid.UUID) (preference.Profile, error) {
	if m.profile == nil || m.profile.UserID != userID {
		return preference.Profile{}, repository.ErrPreferenceNotFound
	}
	return *m.profile, nil
}

func (m *mockPrefRepo) Create(ctx context.Context, p preference.Profile) (preference.Profile, error) {
	m.createCalls++
	if m.profile != nil && m.profile.UserID == p.UserID {
		return *m.profile, nil
	}
	cp := p
	m.profile = &cp
	return cp, nil
}

func (m *mockPrefRepo) SetInterestWeight(_ context.Context, userID, categoryID uuid.UUID, weight float64) error {
	m.interestWrites++
	if m.profile == nil || m.profile.UserID != userID {
		return repository.ErrPreferenceNotFound
	}
	for i := range m.profile.Interests {
		if m.profile.Interests[i].CategoryID == categoryID {
			m.profile.Interests[i].Weight = weight
			return nil
		}
	}
	m.profile.Interests = append(m.profile.Interests, preference.Interest{CategoryID: categoryID, Weight: weight})
	return nil
}

func (m *mockPrefRepo) UpdateSettings(_ context.Context, userID uuid.UUID, level, style string, hoursPerWeek float64, careerGoals []string) error {
	if m.profile == nil || m.profile.UserID != userID {
		return repository.ErrPreferenceNotFound
	}
	m.profile.PreferredLevel = level
	m.profile.LearningStyle = style
	m.profile.AvailableHoursPerWeek = hoursPerWeek
	m.profile.CareerGoals = careerGoals
	return nil
}

func (m *mockPrefRepo) UpsertPathEnrollment(_ context.Context, userID uuid.UUID, pe preference.PathEnrollment) error {
	m.enrollmentWrites++
	if m.profile == nil || m.profile.UserID != userID {
		return repository.ErrPreferenceNotFound
	}
	for i := range m.profile.LearningPaths {
		if m.profile.LearningPaths[i].PathID == pe.PathID {
			m.profile.LearningPaths[i].IsActive = pe.IsActive
			m.profile.LearningPaths[i].LastActivity = pe.LastActivity
			return nil
		}
	}
	m.profile.LearningPaths = append(m.profile.LearningPaths, pe)
	return nil
}

func (m *mockPrefRepo) SetPathProgress(_ context.Context, userID, pathID uuid.UUID, progress float64, lastActivity time.Time) error {
	if m.profile == nil || m.profile.UserID != userID {
		return repository.ErrPreferenceNotFound
	}
	for i := range m.profile.LearningPaths {
		if m.profile.LearningPaths[i].PathID == pathID {
			m.profile.LearningPaths[i].Progress = progress
			m.profile.LearningPaths[i].LastActivity = lastActivity
			return nil
		}
	}
	return repository.ErrPathEnrollmentNotFound
}

// mockCache satisfies the cache interfaces of all three usecases with a
// plain in-memory map.
type mockCache struct {
	entries map[string][]byte
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string][]byte{}}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = []byte(value)
	return true, nil
}
