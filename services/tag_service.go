package services

import (
	"conduit-api/repositories"

	"gorm.io/gorm"
)

type TagService interface {
	GetAllTags(db *gorm.DB) ([]string, error)
}

type tagService struct {
	tagRepo repositories.TagRepository
}

func NewTagService(tagRepo repositories.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) GetAllTags(db *gorm.DB) ([]string, error) {
	tags, err := s.tagRepo.GetAll(db)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}
