package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound возвращается, когда запись не существует ИЛИ принадлежит
// другому пользователю — снаружи эти случаи неразличимы.
var ErrNotFound = errors.New("record not found")

// Store — единая точка доступа к данным; все запросы по сущностям
// пользователя фильтруются по user_id.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
