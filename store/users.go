package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zen-wellness/Zen-snoopy/auth"
	"github.com/zen-wellness/Zen-snoopy/models"
)

// UpsertUser создает пользователя при первом входе и обновляет
// профильные поля при последующих. Настройки уведомлений при апсерте
// не трогаем — они принадлежат нам, а не identity-провайдеру.
func (s *Store) UpsertUser(claims *auth.IdentityClaims) (*models.User, error) {
	user := models.User{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		PhotoURL:    claims.PhotoURL,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "display_name", "photo_url"}),
	}).Create(&user).Error; err != nil {
		return nil, err
	}

	var fresh models.User
	if err := s.db.First(&fresh, "id = ?", claims.Subject).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}

func (s *Store) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) UpdatePreferences(id string, enabled bool, leadMinutes int) (*models.User, error) {
	res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"notify_enabled":      enabled,
		"notify_lead_minutes": leadMinutes,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(id)
}
