package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/cache"
	"github.com/zen-wellness/Zen-snoopy/models"
	"github.com/zen-wellness/Zen-snoopy/store"
)

// HabitStats — аналитика по одной привычке, производная от логов.
// CurrentRun/LongestRun считаются по уникальным датам и не связаны с
// хранимым счётчиком Streak.
type HabitStats struct {
	HabitID    uint   `json:"habitId"`
	Title      string `json:"title"`
	TotalLogs  int    `json:"totalLogs"`
	CurrentRun int    `json:"currentRun"`
	LongestRun int    `json:"longestRun"`
	LastLogged string `json:"lastLogged"`
	err        error
}

type UserHabitStats struct {
	UserID         string        `json:"userId"`
	TotalHabits    int           `json:"totalHabits"`
	HabitStats     []HabitStats  `json:"habitStats"`
	ProcessingTime time.Duration `json:"processingTimeMs"`
}

// StatsService считает агрегаты по привычкам пользователя. Статистика
// каждой привычки независима, поэтому считается в отдельной горутине с
// каналом для сбора результатов; итог кэшируется в Redis на 5 минут.
type StatsService struct {
	store  *store.Store
	cache  *cache.Cache
	logger *zap.Logger
}

func NewStatsService(st *store.Store, c *cache.Cache, logger *zap.Logger) *StatsService {
	return &StatsService{store: st, cache: c, logger: logger}
}

func statsCacheKey(userID string) string {
	return fmt.Sprintf("user_stats:%s", userID)
}

// InvalidateUser сбрасывает кэш статистики после мутаций привычек.
func (s *StatsService) InvalidateUser(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, statsCacheKey(userID)); err != nil {
		s.logger.Warn("stats_cache_invalidate_failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func (s *StatsService) UserStats(ctx context.Context, userID string) (*UserHabitStats, error) {
	startTime := time.Now()

	cacheKey := statsCacheKey(userID)
	var cached UserHabitStats
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	habits, err := s.store.ListHabits(userID)
	if err != nil {
		return nil, err
	}

	if len(habits) == 0 {
		return &UserHabitStats{UserID: userID, HabitStats: []HabitStats{}}, nil
	}

	statsChan := make(chan HabitStats, len(habits))
	var wg sync.WaitGroup

	for _, habit := range habits {
		wg.Add(1)
		go func(h models.Habit) {
			defer wg.Done()
			statsChan <- calculateHabitStats(h)
		}(habit)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	var habitStats []HabitStats
	for stat := range statsChan {
		if stat.err != nil {
			s.logger.Warn("habit_stats_error",
				zap.Uint("habit_id", stat.HabitID),
				zap.Error(stat.err),
			)
			continue
		}
		habitStats = append(habitStats, stat)
	}

	sort.Slice(habitStats, func(i, j int) bool {
		return habitStats[i].HabitID < habitStats[j].HabitID
	})

	result := &UserHabitStats{
		UserID:         userID,
		TotalHabits:    len(habits),
		HabitStats:     habitStats,
		ProcessingTime: time.Since(startTime),
	}

	if err := s.cache.Set(ctx, cacheKey, result, 5*time.Minute); err != nil {
		s.logger.Warn("stats_cache_set_failed", zap.Error(err))
	}

	s.logger.Info("stats_calculated",
		zap.String("user_id", userID),
		zap.Int("habits_count", len(habits)),
		zap.Duration("duration", result.ProcessingTime),
	)

	return result, nil
}

func calculateHabitStats(habit models.Habit) HabitStats {
	stats := HabitStats{HabitID: habit.ID, Title: habit.Title, TotalLogs: len(habit.Logs)}

	// Уникальные даты по убыванию; дубликаты одного дня схлопываются.
	seen := map[string]bool{}
	var days []time.Time
	for _, log := range habit.Logs {
		if seen[log.CompletedDate] {
			continue
		}
		day, err := time.Parse("2006-01-02", log.CompletedDate)
		if err != nil {
			stats.err = err
			return stats
		}
		seen[log.CompletedDate] = true
		days = append(days, day)
	}
	if len(days) == 0 {
		return stats
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	stats.LastLogged = days[0].Format("2006-01-02")

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Sub(days[i]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	stats.LongestRun = longest

	// Текущая серия активна, если последний лог был сегодня или вчера.
	today := time.Now()
	if today.Sub(days[0]).Hours() < 48 {
		current := 1
		for i := 1; i < len(days); i++ {
			if days[i-1].Sub(days[i]) != 24*time.Hour {
				break
			}
			current++
		}
		stats.CurrentRun = current
	}

	return stats
}
