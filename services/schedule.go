package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/models"
	"github.com/zen-wellness/Zen-snoopy/store"
	"github.com/zen-wellness/Zen-snoopy/utils"
)

// TemplateBlock — один блок дефолтного расписания.
type TemplateBlock struct {
	Title     string
	StartTime string
	EndTime   string
}

// DefaultTemplate покрывает сутки целиком; последний блок переваливает
// за полночь (EndTime численно меньше StartTime). Конкретный список —
// продуктовая конфигурация, движку важен только порядок.
var DefaultTemplate = []TemplateBlock{
	{Title: "Sleep", StartTime: "02:00", EndTime: "08:00"},
	{Title: "School prep", StartTime: "08:01", EndTime: "09:30"},
	{Title: "Journal / alone time", StartTime: "09:31", EndTime: "12:00"},
	{Title: "Family duties", StartTime: "12:01", EndTime: "17:00"},
	{Title: "Gaming time", StartTime: "17:01", EndTime: "19:00"},
	{Title: "Homework time", StartTime: "19:01", EndTime: "20:00"},
	{Title: "Cleaning time", StartTime: "20:01", EndTime: "21:00"},
	{Title: "Show time", StartTime: "21:01", EndTime: "23:00"},
	{Title: "Gaming time", StartTime: "23:01", EndTime: "02:00"},
}

// Seeder материализует шаблонное расписание для дат, в которых у
// пользователя ещё нет ни одной задачи.
type Seeder struct {
	store        *store.Store
	logger       *zap.Logger
	template     []TemplateBlock
	weekdaysOnly bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSeeder(st *store.Store, logger *zap.Logger) *Seeder {
	return &Seeder{
		store:        st,
		logger:       logger,
		template:     DefaultTemplate,
		weekdaysOnly: true,
		locks:        map[string]*sync.Mutex{},
	}
}

// userLock выдаёт per-user мьютекс: check-then-create внутри одного
// процесса сериализуется, межпроцессные дубли остаются принятым риском.
func (s *Seeder) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// EnsureScheduled сеет шаблон для каждой даты из [from, from+horizonDays).
// Дата считается занятой, как только в ней есть хотя бы одна задача —
// включая созданные руками; повторный сидинг частично настроенного дня
// ничего не дублирует. Даты независимы: ошибка на одной не останавливает
// остальные.
func (s *Seeder) EnsureScheduled(userID string, from time.Time, horizonDays int) {
	if horizonDays < 1 {
		horizonDays = 1
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	for i := 0; i < horizonDays; i++ {
		day := from.AddDate(0, 0, i)
		s.seedDate(userID, day)
	}
}

func (s *Seeder) seedDate(userID string, day time.Time) {
	if s.weekdaysOnly {
		wd := day.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return
		}
	}

	date := day.Format("2006-01-02")

	count, err := s.store.CountTasksForDate(userID, date)
	if err != nil {
		s.logger.Warn("seed_check_failed",
			zap.String("user_id", userID),
			zap.String("date", date),
			zap.Error(err),
		)
		return
	}
	if count > 0 {
		return
	}

	created := 0
	for _, block := range s.template {
		task := models.Task{
			Title:     block.Title,
			StartTime: block.StartTime,
			EndTime:   block.EndTime,
			Completed: false,
			Date:      date,
		}
		if err := s.store.CreateTask(userID, &task); err != nil {
			s.logger.Warn("seed_task_failed",
				zap.String("user_id", userID),
				zap.String("date", date),
				zap.String("title", block.Title),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	if created > 0 {
		utils.SeededTasks.Add(float64(created))
		s.logger.Info("schedule_seeded",
			zap.String("user_id", userID),
			zap.String("date", date),
			zap.Int("tasks", created),
		)
	}
}

// SetTemplate заменяет шаблон (используется в тестах и для продуктовых
// экспериментов). weekdaysOnly управляет гейтом по будням.
func (s *Seeder) SetTemplate(blocks []TemplateBlock, weekdaysOnly bool) {
	s.template = blocks
	s.weekdaysOnly = weekdaysOnly
}
