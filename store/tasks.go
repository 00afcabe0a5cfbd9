package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zen-wellness/Zen-snoopy/models"
)

// TaskUpdate — частичное обновление: применяются только ненулевые поля.
type TaskUpdate struct {
	Title       *string
	Description *string
	StartTime   *string
	EndTime     *string
	Completed   *bool
	Date        *string
}

// ListTasks возвращает задачи пользователя; date != "" сужает выборку
// до одного календарного дня.
func (s *Store) ListTasks(userID, date string) ([]models.Task, error) {
	var tasks []models.Task
	query := s.db.Where("user_id = ?", userID)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("start_time").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) CreateTask(userID string, task *models.Task) error {
	task.ID = 0
	task.UserID = userID
	return s.db.Create(task).Error
}

// UpdateTask применяет частичное обновление одним запросом с проверкой
// владельца в WHERE — отдельной проверки существования нет, чтобы не
// открывать второе окно гонки.
func (s *Store) UpdateTask(id uint, userID string, in TaskUpdate) (*models.Task, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.StartTime != nil {
		updates["start_time"] = *in.StartTime
	}
	if in.EndTime != nil {
		updates["end_time"] = *in.EndTime
	}
	if in.Completed != nil {
		updates["completed"] = *in.Completed
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}

	if len(updates) > 0 {
		res := s.db.Model(&models.Task{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	var task models.Task
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (s *Store) DeleteTask(id uint, userID string) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountTasksForDate — gate для сидинга: день считается занятым, как
// только в нём есть хотя бы одна задача, в том числе созданная руками.
func (s *Store) CountTasksForDate(userID, date string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Task{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error
	return count, err
}
