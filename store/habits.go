package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zen-wellness/Zen-snoopy/models"
)

// HabitUpdate намеренно не содержит Streak: счётчик — производное
// состояние, его меняет только LogHabit.
type HabitUpdate struct {
	Title       *string
	Description *string
}

func (s *Store) ListHabits(userID string) ([]models.Habit, error) {
	var habits []models.Habit
	if err := s.db.Preload("Logs").Where("user_id = ?", userID).Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (s *Store) CreateHabit(userID string, habit *models.Habit) error {
	habit.ID = 0
	habit.UserID = userID
	habit.Streak = 0
	habit.Logs = nil
	return s.db.Create(habit).Error
}

func (s *Store) UpdateHabit(id uint, userID string, in HabitUpdate) (*models.Habit, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if len(updates) > 0 {
		res := s.db.Model(&models.Habit{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	var habit models.Habit
	if err := s.db.Preload("Logs").
		Where("id = ? AND user_id = ?", id, userID).
		First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &habit, nil
}

// LogHabit добавляет лог выполнения и увеличивает streak на 1.
// Дедупликации по дате нет, непрерывность дней не проверяется: это
// счётчик выполнений, а не настоящий consecutive-day streak.
func (s *Store) LogHabit(habitID uint, userID, completedDate string) (*models.HabitLog, error) {
	var log models.HabitLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		log = models.HabitLog{HabitID: habitID, CompletedDate: completedDate}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		return tx.Model(&models.Habit{}).
			Where("id = ?", habitID).
			UpdateColumn("streak", gorm.Expr("streak + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// DeleteHabit каскадно удаляет логи, затем саму привычку, в одной
// транзакции и с проверкой владельца.
func (s *Store) DeleteHabit(id uint, userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("habit_id = ?", id).Delete(&models.HabitLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&habit).Error
	})
}

// HabitLogs возвращает логи одной привычки (ownership через родителя).
func (s *Store) HabitLogs(habitID uint, userID string) ([]models.HabitLog, error) {
	var habit models.Habit
	if err := s.db.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var logs []models.HabitLog
	if err := s.db.Where("habit_id = ?", habitID).Order("completed_date DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
