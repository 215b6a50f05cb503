package repositories

import (
	"conduit-api/models"

	"gorm.io/gorm"
)

type FollowerRepository interface {
	Exists(db *gorm.DB, followerID, followingID uint) (bool, error)
	FollowingAmong(db *gorm.DB, followerID uint, followingIDs []uint) ([]uint, error)
	Create(db *gorm.DB, followerID, followingID uint) error
	Delete(db *gorm.DB, followerID, followingID uint) error
}

type followerRepository struct{}

func NewFollowerRepository() FollowerRepository {
	return &followerRepository{}
}

func (r *followerRepository) Exists(db *gorm.DB, followerID, followingID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// FollowingAmong returns the subset of followingIDs followed by followerID.
func (r *followerRepository) FollowingAmong(db *gorm.DB, followerID uint, followingIDs []uint) ([]uint, error) {
	ids := []uint{}
	if len(followingIDs) == 0 {
		return ids, nil
	}
	err := db.Model(&models.Follower{}).
		Where("follower_id = ? AND following_id IN ?", followerID, followingIDs).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *followerRepository) Create(db *gorm.DB, followerID, followingID uint) error {
	return db.Create(&models.Follower{FollowerID: followerID, FollowingID: followingID}).Error
}

func (r *followerRepository) Delete(db *gorm.DB, followerID, followingID uint) error {
	return db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follower{}).Error
}
