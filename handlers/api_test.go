package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zen-wellness/Zen-snoopy/auth"
	"github.com/zen-wellness/Zen-snoopy/config"
	"github.com/zen-wellness/Zen-snoopy/handlers"
	"github.com/zen-wellness/Zen-snoopy/middleware"
	"github.com/zen-wellness/Zen-snoopy/models"
	"github.com/zen-wellness/Zen-snoopy/services"
	"github.com/zen-wellness/Zen-snoopy/store"
	"github.com/zen-wellness/Zen-snoopy/utils"
)

// stubVerifier принимает любой непустой токен и использует его как
// subject — identity-провайдер в тестах не нужен.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (*auth.IdentityClaims, error) {
	if token == "" || token == "invalid" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.IdentityClaims{
		Subject:     token,
		Email:       token + "@example.com",
		DisplayName: "User " + token,
	}, nil
}

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	conn   *gorm.DB
	seeder *services.Seeder
}

func setupAPI(t *testing.T, template []services.TemplateBlock) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	handlers.RegisterValidators()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Habit{},
		&models.HabitLog{},
		&models.JournalEntry{},
	))

	st := store.New(conn)
	seeder := services.NewSeeder(st, zap.NewNop())
	seeder.SetTemplate(template, false)
	stats := services.NewStatsService(st, nil, zap.NewNop())
	quotes := services.NewQuoteService(config.AppConfig{}, zap.NewNop())
	h := handlers.New(st, nil, stats, quotes, zap.NewNop())

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Auth(stubVerifier{}, st, seeder, 1, zap.NewNop()))
	{
		api.GET("/profile", h.Profile)
		api.PUT("/profile/preferences", h.UpdatePreferences)
		api.GET("/tasks", h.ListTasks)
		api.POST("/tasks", h.CreateTask)
		api.PUT("/tasks/:id", h.UpdateTask)
		api.DELETE("/tasks/:id", h.DeleteTask)
		api.GET("/habits", h.ListHabits)
		api.POST("/habits", h.CreateHabit)
		api.PUT("/habits/:id", h.UpdateHabit)
		api.POST("/habits/:id/log", h.LogHabit)
		api.DELETE("/habits/:id", h.DeleteHabit)
		api.GET("/habits/stats", h.HabitStats)
		api.GET("/journal", h.ListJournal)
		api.POST("/journal", h.CreateJournalEntry)
		api.DELETE("/journal/:id", h.DeleteJournalEntry)
		api.GET("/quote", h.DailyQuote)
	}

	return &testEnv{router: r, store: st, conn: conn, seeder: seeder}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestMissingAuthHeaderRejectedWithoutSideEffects(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decode[map[string]string](t, w)
	require.Equal(t, "Unauthorized", body["message"])

	var users int64
	require.NoError(t, env.conn.Model(&models.User{}).Count(&users).Error)
	require.Zero(t, users)
}

func TestInvalidTokenRejected(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/habits", "invalid", map[string]string{"title": "x"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateThenListTask(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/tasks", "alice", map[string]interface{}{
		"title":     "Meditate",
		"startTime": "07:00",
		"endTime":   "07:30",
		"date":      "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Task](t, w)
	require.NotZero(t, created.ID)
	require.Equal(t, "alice", created.UserID)

	w = env.do(t, http.MethodGet, "/api/tasks?date=2024-06-01", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	tasks := decode[[]models.Task](t, w)
	require.Len(t, tasks, 1)
	require.Equal(t, "Meditate", tasks[0].Title)
}

func TestCreateTaskValidation(t *testing.T) {
	env := setupAPI(t, nil)

	cases := []map[string]interface{}{
		{"startTime": "07:00", "endTime": "08:00", "date": "2024-06-01"},                      // no title
		{"title": "x", "startTime": "25:00", "endTime": "08:00", "date": "2024-06-01"},       // bad hour
		{"title": "x", "startTime": "07:00", "endTime": "08:00", "date": "June first"},       // bad date
		{"title": "x", "startTime": "7am", "endTime": "08:00", "date": "2024-06-01"},         // bad format
	}

	for _, body := range cases {
		w := env.do(t, http.MethodPost, "/api/tasks", "alice", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestCrossMidnightTaskAccepted(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/tasks", "alice", map[string]interface{}{
		"title":     "Night gaming",
		"startTime": "23:00",
		"endTime":   "02:00",
		"date":      "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode[models.Task](t, w)
	require.Equal(t, "23:00", created.StartTime)
	require.Equal(t, "02:00", created.EndTime)
}

func TestTaskNotOwnedReturns404(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/tasks", "alice", map[string]interface{}{
		"title":     "Private",
		"startTime": "08:00",
		"endTime":   "09:00",
		"date":      "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Task](t, w)

	w = env.do(t, http.MethodPut, "/api/tasks/"+itoa(created.ID), "bob", map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/tasks/"+itoa(created.ID), "bob", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Владелец всё ещё видит задачу
	w = env.do(t, http.MethodGet, "/api/tasks?date=2024-06-01", "alice", nil)
	tasks := decode[[]models.Task](t, w)
	require.Len(t, tasks, 1)
}

func TestPartialTaskUpdateOverHTTP(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/tasks", "alice", map[string]interface{}{
		"title":       "A",
		"description": "B",
		"startTime":   "10:00",
		"endTime":     "11:00",
		"date":        "2024-06-01",
	})
	created := decode[models.Task](t, w)

	w = env.do(t, http.MethodPut, "/api/tasks/"+itoa(created.ID), "alice", map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[models.Task](t, w)
	require.Equal(t, "A", updated.Title)
	require.Equal(t, "B", updated.Description)
	require.True(t, updated.Completed)
}

func TestHabitLifecycle(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/habits", "alice", map[string]string{"title": "Meditate"})
	require.Equal(t, http.StatusCreated, w.Code)
	habit := decode[models.Habit](t, w)
	require.Zero(t, habit.Streak)

	// Два лога за один день — два ряда, streak 2
	for i := 0; i < 2; i++ {
		w = env.do(t, http.MethodPost, "/api/habits/"+itoa(habit.ID)+"/log", "alice", map[string]string{
			"date": "2024-06-01",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/habits", "alice", nil)
	habits := decode[[]models.Habit](t, w)
	require.Len(t, habits, 1)
	require.Equal(t, 2, habits[0].Streak)
	require.Len(t, habits[0].Logs, 2)

	// Попытка выставить streak напрямую игнорируется
	w = env.do(t, http.MethodPut, "/api/habits/"+itoa(habit.ID), "alice", map[string]interface{}{
		"title":  "Evening meditation",
		"streak": 99,
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Habit](t, w)
	require.Equal(t, "Evening meditation", updated.Title)
	require.Equal(t, 2, updated.Streak)

	w = env.do(t, http.MethodDelete, "/api/habits/"+itoa(habit.ID), "alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/habits", "alice", nil)
	habits = decode[[]models.Habit](t, w)
	require.Empty(t, habits)
}

func TestLogHabitUnknownIDReturns404(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/habits/9999/log", "alice", map[string]string{
		"date": "2024-06-01",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestJournalFlow(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/journal", "alice", map[string]string{
		"content": "Calm morning",
		"mood":    "peaceful",
		"date":    "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	entry := decode[models.JournalEntry](t, w)

	// Пустой content отклоняется на границе
	w = env.do(t, http.MethodPost, "/api/journal", "alice", map[string]string{
		"content": "",
		"date":    "2024-06-01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/journal?date=2024-06-01", "alice", nil)
	entries := decode[[]models.JournalEntry](t, w)
	require.Len(t, entries, 1)

	w = env.do(t, http.MethodDelete, "/api/journal/"+itoa(entry.ID), "alice", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/journal/"+itoa(entry.ID), "alice", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthSeedsScheduleOnce(t *testing.T) {
	template := []services.TemplateBlock{
		{Title: "Morning focus", StartTime: "08:00", EndTime: "10:00"},
		{Title: "Wind down", StartTime: "21:00", EndTime: "22:00"},
	}
	env := setupAPI(t, template)

	today := time.Now().Format("2006-01-02")

	// Первый аутентифицированный запрос сеет шаблон
	w := env.do(t, http.MethodGet, "/api/tasks?date="+today, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode[[]models.Task](t, w)
	require.Len(t, tasks, len(template))

	// Повторный — не дублирует
	w = env.do(t, http.MethodGet, "/api/tasks?date="+today, "alice", nil)
	tasks = decode[[]models.Task](t, w)
	require.Len(t, tasks, len(template))

	// Чужой календарь не затронут до его собственного запроса
	var count int64
	require.NoError(t, env.conn.Model(&models.Task{}).Where("user_id = ?", "bob").Count(&count).Error)
	require.Zero(t, count)
}

func TestProfileUpsertAndPreferences(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodGet, "/api/profile", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[models.User](t, w)
	require.Equal(t, "alice", user.ID)
	require.Equal(t, "alice@example.com", user.Email)
	require.True(t, user.NotifyEnabled)

	w = env.do(t, http.MethodPut, "/api/profile/preferences", "alice", map[string]interface{}{
		"notifyEnabled":     false,
		"notifyLeadMinutes": 45,
	})
	require.Equal(t, http.StatusOK, w.Code)
	user = decode[models.User](t, w)
	require.False(t, user.NotifyEnabled)
	require.Equal(t, 45, user.NotifyLeadMinutes)

	// Следующий запрос апсертит профиль, но настройки сохраняются
	w = env.do(t, http.MethodGet, "/api/profile", "alice", nil)
	user = decode[models.User](t, w)
	require.False(t, user.NotifyEnabled)
	require.Equal(t, 45, user.NotifyLeadMinutes)
}

func TestDailyQuoteEndpoint(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodGet, "/api/quote", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	quote := decode[services.Quote](t, w)
	require.NotEmpty(t, quote.Text)
}

func TestHabitStatsEndpoint(t *testing.T) {
	env := setupAPI(t, nil)

	w := env.do(t, http.MethodPost, "/api/habits", "alice", map[string]string{"title": "Run"})
	habit := decode[models.Habit](t, w)

	w = env.do(t, http.MethodPost, "/api/habits/"+itoa(habit.ID)+"/log", "alice", map[string]string{
		"date": time.Now().Format("2006-01-02"),
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/habits/stats", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	stats := decode[services.UserHabitStats](t, w)
	require.Equal(t, 1, stats.TotalHabits)
	require.Len(t, stats.HabitStats, 1)
	require.Equal(t, 1, stats.HabitStats[0].TotalLogs)
	require.Equal(t, 1, stats.HabitStats[0].CurrentRun)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
