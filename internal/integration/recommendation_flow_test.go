package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"course-compass/internal/config"
	"course-compass/internal/database"
	"course-compass/internal/database/migration"
	dbpostgres "course-compass/internal/database/postgres"
	"course-compass/internal/delivery/http/middleware"
	"course-compass/internal/delivery/http/routes"
	"course-compass/internal/domain/catalog"
	"course-compass/internal/domain/preference"
	"course-compass/internal/infrastructure/cache"
	"course-compass/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type courseItem struct {
	CourseID   uuid.UUID `json:"course_id"`
	Title      string    `json:"title"`
	CategoryID uuid.UUID `json:"category_id"`
}

type pathItem struct {
	PathID uuid.UUID `json:"path_id"`
	Title  string    `json:"title"`
}

type interestItem struct {
	CategoryID uuid.UUID `json:"category_id"`
	Weight     float64   `json:"weight"`
}

type preferenceData struct {
	Interests      []interestItem `json:"interests"`
	PreferredLevel string         `json:"preferred_level"`
}

type enrollmentData struct {
	PathID   uuid.UUID `json:"path_id"`
	Progress float64   `json:"progress"`
	IsActive bool      `json:"is_active"`
}

func TestIntegration_ActivityTracking_Recommendations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runTestMigrations(t, ctx, db)

	seed := seedTestData(t, ctx, db)
	defer cleanupSeed(t, ctx, db, seed)

	app := newTestFiberApp(t, seed.cfg, db)

	tok := loginAndGetJWT(t, app)

	// first activity lazily creates the profile and bumps the category
	trackActivity(t, app, tok, seed.courseHotID, preference.ActionEnroll)

	prefs := getPreferences(t, app, tok)
	if prefs.PreferredLevel != preference.LevelBeginner {
		t.Fatalf("preferred_level = %q, want %q", prefs.PreferredLevel, preference.LevelBeginner)
	}
	foundInterest := false
	for _, in := range prefs.Interests {
		if in.CategoryID == seed.categoryID {
			foundInterest = true
			if in.Weight < 1.5-1e-9 || in.Weight > 1.5+1e-9 {
				t.Fatalf("interest weight = %v, want 1.5 after first enroll", in.Weight)
			}
		}
	}
	if !foundInterest {
		t.Fatalf("expected interest entry for seeded category %s", seed.categoryID)
	}

	courses := getCourseRecommendations(t, app, tok)
	assertContainsCourse(t, courses, seed.courseHotID)
	assertContainsCourse(t, courses, seed.courseColdID)
	assertCourseBefore(t, courses, seed.courseHotID, seed.courseColdID)
	if containsCourse(courses, seed.courseDraftID) {
		t.Fatal("draft courses must never be recommended")
	}

	paths := getPathRecommendations(t, app, tok)
	assertContainsPath(t, paths, seed.pathID)

	enr := enrollPath(t, app, tok, seed.pathID)
	if !enr.IsActive || enr.Progress != 0 {
		t.Fatalf("enrollment = %+v, want active with progress 0", enr)
	}

	// active enrollment excludes the path from subsequent recommendations
	paths = getPathRecommendations(t, app, tok)
	if containsPath(paths, seed.pathID) {
		t.Fatal("actively enrolled path must be excluded from recommendations")
	}

	enr = updateProgress(t, app, tok, seed.pathID, 150)
	if enr.Progress != 100 {
		t.Fatalf("progress = %v, want clamp to 100", enr.Progress)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set COURSECOMPASS_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	dbcfg := config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	}

	db, err := dbpostgres.Connect(ctx, dbcfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runTestMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	migDir := resolveMigrationsDir(t)
	r := migration.Runner{Dir: migDir}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func resolveMigrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}

	// this file: internal/integration/recommendation_flow_test.go
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	migDir := filepath.Join(root, "migrations")

	if st, err := os.Stat(migDir); err != nil || !st.IsDir() {
		t.Fatalf("resolve migrations dir: not found or not a dir: %s", migDir)
	}
	return migDir
}

type seededIDs struct {
	cfg           config.Config
	userID        uuid.UUID
	categoryID    uuid.UUID
	courseHotID   uuid.UUID
	courseColdID  uuid.UUID
	courseDraftID uuid.UUID
	pathID        uuid.UUID
}

func seedTestData(t *testing.T, ctx context.Context, db database.DB) seededIDs {
	t.Helper()

	out := seededIDs{
		cfg: config.Config{
			App:      config.AppConfig{AppName: "course-compass", Environment: "test", HTTPPort: "0"},
			Database: config.DatabaseConfig{RunSeeders: false},
			JWT: config.JWTConfig{
				AccessSecret:     stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_JWT_ACCESS_SECRET"), "test-access-secret"),
				RefreshSecret:    stringsOrDefault(os.Getenv("COURSECOMPASS_TEST_JWT_REFRESH_SECRET"), "test-refresh-secret"),
				AccessExpiresIn:  15 * time.Minute,
				RefreshExpiresIn: 24 * time.Hour,
			},
		},
	}

	out.categoryID = ensureCategory(t, ctx, db, "IT-Test Category")
	out.courseHotID = ensureCourse(t, ctx, db, out.categoryID, "it-test-course-hot", catalog.StatusPublished, 20000)
	out.courseColdID = ensureCourse(t, ctx, db, out.categoryID, "it-test-course-cold", catalog.StatusPublished, 10)
	out.courseDraftID = ensureCourse(t, ctx, db, out.categoryID, "it-test-course-draft", catalog.StatusDraft, 50000)
	out.pathID = ensurePath(t, ctx, db, out.categoryID, "it-test-path", preference.LevelBeginner)
	out.userID = ensureUser(t, ctx, db, "it-test-user@example.com", "password")

	return out
}

func cleanupSeed(t *testing.T, ctx context.Context, db database.DB, seed seededIDs) {
	t.Helper()

	_, _ = db.Exec(ctx, `DELETE FROM user_path_enrollments WHERE user_id = $1`, seed.userID)
	_, _ = db.Exec(ctx, `DELETE FROM user_interests WHERE user_id = $1`, seed.userID)
	_, _ = db.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, seed.userID)
	_, _ = db.Exec(ctx, `DELETE FROM enrollments WHERE user_id = $1`, seed.userID)
	_, _ = db.Exec(ctx, `DELETE FROM users WHERE id = $1`, seed.userID)
	_, _ = db.Exec(ctx, `DELETE FROM learning_paths WHERE id = $1`, seed.pathID)
	_, _ = db.Exec(ctx, `DELETE FROM courses WHERE id IN ($1, $2, $3)`, seed.courseHotID, seed.courseColdID, seed.courseDraftID)
	_, _ = db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, seed.categoryID)
}

func newTestFiberApp(t *testing.T, cfg config.Config, db database.DB) *fiber.App {
	t.Helper()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	app := fiber.New(fiber.Config{})
	errMw := middleware.NewErrorMiddleware()
	app.Use(errMw.Middleware())

	routes.NewRegistry(cfg, db, cache.NewRedis(logger), hub, logger).Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, jwt string, body any) semanticResponse {
	t.Helper()

	var buf *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	} else {
		buf = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	if jwt != "" {
		req.Header.Set("Authorization", "Bearer "+jwt)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s decode: %v", method, target, err)
	}
	return sr
}

func loginAndGetJWT(t *testing.T, app *fiber.App) string {
	t.Helper()

	sr := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "it-test-user@example.com",
		"password": "password",
	})
	if sr.Status != 200 {
		t.Fatalf("login: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(sr.Data, &m); err != nil {
		t.Fatalf("login data unmarshal: %v", err)
	}
	var token string
	if raw, ok := m["access_token"]; ok {
		_ = json.Unmarshal(raw, &token)
	}
	if token == "" {
		t.Fatalf("login: missing access_token")
	}
	return token
}

func trackActivity(t *testing.T, app *fiber.App, jwt string, courseID uuid.UUID, action string) {
	t.Helper()

	sr := doJSON(t, app, "POST", "/api/v1/activity", jwt, map[string]string{
		"course_id": courseID.String(),
		"action":    action,
	})
	if sr.Status != 200 {
		t.Fatalf("activity: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
}

func getPreferences(t *testing.T, app *fiber.App, jwt string) preferenceData {
	t.Helper()

	sr := doJSON(t, app, "GET", "/api/v1/preferences", jwt, nil)
	if sr.Status != 200 {
		t.Fatalf("preferences: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
	var pd preferenceData
	if err := json.Unmarshal(sr.Data, &pd); err != nil {
		t.Fatalf("preferences unmarshal: %v", err)
	}
	return pd
}

func getCourseRecommendations(t *testing.T, app *fiber.App, jwt string) []courseItem {
	t.Helper()

	sr := doJSON(t, app, "GET", "/api/v1/courses/recommendations", jwt, nil)
	if sr.Status != 200 {
		t.Fatalf("course recommendations: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
	var items []courseItem
	if err := json.Unmarshal(sr.Data, &items); err != nil {
		t.Fatalf("course recommendations unmarshal: %v", err)
	}
	if len(items) > 10 {
		t.Fatalf("course recommendations: expected at most 10, got %d", len(items))
	}
	return items
}

func getPathRecommendations(t *testing.T, app *fiber.App, jwt string) []pathItem {
	t.Helper()

	sr := doJSON(t, app, "GET", "/api/v1/learning-paths/recommendations", jwt, nil)
	if sr.Status != 200 {
		t.Fatalf("path recommendations: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
	var items []pathItem
	if err := json.Unmarshal(sr.Data, &items); err != nil {
		t.Fatalf("path recommendations unmarshal: %v", err)
	}
	if len(items) > 5 {
		t.Fatalf("path recommendations: expected at most 5, got %d", len(items))
	}
	return items
}

func enrollPath(t *testing.T, app *fiber.App, jwt string, pathID uuid.UUID) enrollmentData {
	t.Helper()

	sr := doJSON(t, app, "POST", "/api/v1/learning-paths/"+pathID.String()+"/enroll", jwt, nil)
	if sr.Status != 200 {
		t.Fatalf("enroll: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
	var ed enrollmentData
	if err := json.Unmarshal(sr.Data, &ed); err != nil {
		t.Fatalf("enroll unmarshal: %v", err)
	}
	return ed
}

func updateProgress(t *testing.T, app *fiber.App, jwt string, pathID uuid.UUID, progress float64) enrollmentData {
	t.Helper()

	sr := doJSON(t, app, "PUT", "/api/v1/learning-paths/"+pathID.String()+"/progress", jwt, map[string]float64{
		"progress": progress,
	})
	if sr.Status != 200 {
		t.Fatalf("progress: expected status=200, got %d (message=%s)", sr.Status, sr.Message)
	}
	var ed enrollmentData
	if err := json.Unmarshal(sr.Data, &ed); err != nil {
		t.Fatalf("progress unmarshal: %v", err)
	}
	return ed
}

func containsCourse(items []courseItem, id uuid.UUID) bool {
	for _, it := range items {
		if it.CourseID == id {
			return true
		}
	}
	return false
}

func assertContainsCourse(t *testing.T, items []courseItem, id uuid.UUID) {
	t.Helper()
	if !containsCourse(items, id) {
		t.Fatalf("expected course %s in recommendations", id)
	}
}

func assertCourseBefore(t *testing.T, items []courseItem, first, second uuid.UUID) {
	t.Helper()

	firstIdx, secondIdx := -1, -1
	for i, it := range items {
		if it.CourseID == first {
			firstIdx = i
		}
		if it.CourseID == second {
			secondIdx = i
		}
	}
	if firstIdx == -1 || secondIdx == -1 {
		t.Fatalf("both courses must be present: firstIdx=%d secondIdx=%d", firstIdx, secondIdx)
	}
	if firstIdx > secondIdx {
		t.Fatalf("course %s must rank before %s", first, second)
	}
}

func containsPath(items []pathItem, id uuid.UUID) bool {
	for _, it := range items {
		if it.PathID == id {
			return true
		}
	}
	return false
}

func assertContainsPath(t *testing.T, items []pathItem, id uuid.UUID) {
	t.Helper()
	if !containsPath(items, id) {
		t.Fatalf("expected path %s in recommendations", id)
	}
}

func ensureCategory(t *testing.T, ctx context.Context, db database.DB, name string) uuid.UUID {
	t.Helper()

	_, err := db.Exec(ctx,
		`INSERT INTO categories (id, name) VALUES (gen_random_uuid(), $1) ON CONFLICT (name) DO NOTHING`,
		name,
	)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	var id uuid.UUID
	if err := db.QueryRow(ctx, `SELECT id FROM categories WHERE name = $1`, name).Scan(&id); err != nil {
		t.Fatalf("load category: %v", err)
	}
	return id
}

func ensureCourse(t *testing.T, ctx context.Context, db database.DB, categoryID uuid.UUID, title, status string, students int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(ctx,
		`INSERT INTO courses (id, title, category_id, students_enrolled, status) VALUES ($1, $2, $3, $4, $5)`,
		id, title, categoryID, students, status,
	)
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return id
}

func ensurePath(t *testing.T, ctx context.Context, db database.DB, categoryID uuid.UUID, title, level string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(ctx,
		`INSERT INTO learning_paths (id, title, category_id, level, popularity, estimated_hours, status)
		 VALUES ($1, $2, $3, $4, 100, 40, $5)`,
		id, title, categoryID, level, catalog.StatusPublished,
	)
	if err != nil {
		t.Fatalf("seed path: %v", err)
	}
	return id
}

func ensureUser(t *testing.T, ctx context.Context, db database.DB, email, password string) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	id := uuid.New()
	_, err = db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		id, email, string(hash),
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	var got uuid.UUID
	if err := db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&got); err != nil {
		t.Fatalf("load user: %v", err)
	}
	return got
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
