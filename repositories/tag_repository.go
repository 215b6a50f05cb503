package repositories

import (
	"conduit-api/helper"
	"conduit-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	CreateTags(db *gorm.DB, names []string) ([]models.Tag, error)
	GetAll(db *gorm.DB) ([]models.Tag, error)
}

type tagRepository struct{}

func NewTagRepository() TagRepository {
	return &tagRepository{}
}

// CreateTags inserts the missing names and returns the stored rows for all
// of them. Concurrent creators of the same name both end up with one row.
func (r *tagRepository) CreateTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	names = helper.UniqueStrings(names)
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	rows := make([]models.Tag, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Tag{Name: name})
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	err = db.Where("name IN ?", names).Order("id").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) GetAll(db *gorm.DB) ([]models.Tag, error) {
	var tags []models.Tag
	err := db.Order("name").Find(&tags).Error
	return tags, err
}
