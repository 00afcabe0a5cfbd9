package models

import "time"

// User is keyed by the identity provider's subject id, not an
// autoincrement — the provider owns identity, we only mirror profile
// fields. Notification preferences are ours and survive profile upserts.
type User struct {
	ID                string    `gorm:"primaryKey" json:"id"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"displayName"`
	PhotoURL          string    `json:"photoURL"`
	NotifyEnabled     bool      `gorm:"default:true" json:"notifyEnabled"`
	NotifyLeadMinutes int       `gorm:"default:10" json:"notifyLeadMinutes"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Task is one time-boxed block on a user's calendar for a single date.
// StartTime/EndTime are naive "HH:mm" strings; EndTime may be numerically
// smaller than StartTime for blocks that cross midnight.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      string `gorm:"index:idx_tasks_user_date" json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Completed   bool   `gorm:"default:false" json:"completed"`
	Date        string `gorm:"index:idx_tasks_user_date" json:"date"`
}

// Habit carries a Streak counter that is derived state: only LogHabit
// bumps it, the generic update path never touches it.
type Habit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"index" json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Streak      int        `gorm:"default:0" json:"streak"`
	Logs        []HabitLog `gorm:"foreignKey:HabitID" json:"logs"`
}

// HabitLog is append-only; duplicates for the same date are allowed.
// Ownership is via the parent habit's UserID.
type HabitLog struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	HabitID       uint   `gorm:"index" json:"habitId"`
	CompletedDate string `json:"completedDate"`
}

type JournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index" json:"userId"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Date      string    `json:"date"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
