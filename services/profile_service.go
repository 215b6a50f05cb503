package services

import (
	"conduit-api/models"
	"conduit-api/repositories"

	"gorm.io/gorm"
)

// ProfileResolver is the narrow capability the article core needs: turning
// user ids into profiles as seen by a viewer.
type ProfileResolver interface {
	GetProfileByUserID(db *gorm.DB, userID uint, viewer *models.UserDTO) (*models.Profile, error)
	GetProfilesByUserIDs(db *gorm.DB, userIDs []uint, viewer *models.UserDTO) ([]models.Profile, error)
}

type ProfileService interface {
	ProfileResolver
	GetProfileByUsername(db *gorm.DB, username string, viewer *models.UserDTO) (*models.Profile, error)
	FollowUser(db *gorm.DB, username string, viewer *models.UserDTO) (*models.Profile, error)
	UnfollowUser(db *gorm.DB, username string, viewer *models.UserDTO) (*models.Profile, error)
}

type profileService struct {
	userRepo     repositories.UserRepository
	followerRepo repositories.FollowerRepository
}

func NewProfileService(userRepo repositories.UserRepository, followerRepo repositories.FollowerRepository) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		followerRepo: followerRepo,
	}
}

func (s *profileService) GetProfileByUserID(db *gorm.DB, userID uint, viewer *models.UserDTO) (*models.Profile, error) {
	user, err := s.userRepo.GetByIDOrNone(db, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrProfileNotFound
	}
	return s.profileOf(db, user, viewer)
}

// GetProfilesByUserIDs resolves every distinct id with one user query and
// one follow query. Missing users are left out of the result.
func (s *profileService) GetProfilesByUserIDs(db *gorm.DB, userIDs []uint, viewer *models.UserDTO) ([]models.Profile, error) {
	users, err := s.userRepo.GetByIDs(db, userIDs)
	if err != nil {
		return nil, err
	}

	following := map[uint]bool{}
	if viewer != nil && len(users) > 0 {
		ids := make([]uint, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		followed, err := s.followerRepo.FollowingAmong(db, viewer.ID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range followed {
			following[id] = true
		}
	}

	profiles := make([]models.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, toProfile(&users[i], following[users[i].ID]))
	}
	return profiles, nil
}

func (s *profileService) GetProfileByUsername(db *gorm.DB, username string, viewer *models.UserDTO) (*models.Profile, error) {
	user, err := s.userByUsername(db, username)
	if err != nil {
		return nil, err
	}
	return s.profileOf(db, user, viewer)
}

func (s *profileService) FollowUser(db *gorm.DB, username string, viewer *models.UserDTO) (*models.Profile, error) {
	user, err := s.followTarget(db, username, viewer)
	if err != nil {
		return nil, err
	}

	exists, err := s.followerRepo.Exists(db, viewer.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrProfileAlreadyFollowed
	}
	if err := s.followerRepo.Create(db, viewer.ID, user.ID); err != nil {
		return nil, err
	}

	profile := toProfile(user, true)
	return &profile, nil
}

func (s *profileService) UnfollowUser(db *gorm.DB, username string, viewer *models.UserDTO) (*models.Profile, error) {
	user, err := s.followTarget(db, username, viewer)
	if err != nil {
		return nil, err
	}

	exists, err := s.followerRepo.Exists(db, viewer.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrProfileNotFollowed
	}
	if err := s.followerRepo.Delete(db, viewer.ID, user.ID); err != nil {
		return nil, err
	}

	profile := toProfile(user, false)
	return &profile, nil
}

func (s *profileService) followTarget(db *gorm.DB, username string, viewer *models.UserDTO) (*models.User, error) {
	if viewer == nil {
		return nil, models.ErrMissingJWTToken
	}
	if viewer.Username == username {
		return nil, models.ErrOwnProfileFollowing
	}
	return s.userByUsername(db, username)
}

func (s *profileService) userByUsername(db *gorm.DB, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsernameOrNone(db, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrProfileNotFound
	}
	return user, nil
}

func (s *profileService) profileOf(db *gorm.DB, user *models.User, viewer *models.UserDTO) (*models.Profile, error) {
	following := false
	if viewer != nil && viewer.ID != user.ID {
		var err error
		following, err = s.followerRepo.Exists(db, viewer.ID, user.ID)
		if err != nil {
			return nil, err
		}
	}
	profile := toProfile(user, following)
	return &profile, nil
}

func toProfile(user *models.User, following bool) models.Profile {
	return models.Profile{
		UserID:    user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.ImageURL,
		Following: following,
	}
}
