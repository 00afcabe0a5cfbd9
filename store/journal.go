package store

import "github.com/zen-wellness/Zen-snoopy/models"

func (s *Store) ListJournal(userID, date string) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	query := s.db.Where("user_id = ?", userID)
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) CreateJournalEntry(userID string, entry *models.JournalEntry) error {
	entry.ID = 0
	entry.UserID = userID
	return s.db.Create(entry).Error
}

func (s *Store) DeleteJournalEntry(id uint, userID string) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.JournalEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
