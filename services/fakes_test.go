package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"conduit-api/helper"
	"conduit-api/models"

	"gorm.io/gorm"
)

// memStore backs the in-memory repositories used by the service tests. It
// mimics the relational schema closely enough for the service contracts:
// composite keys, cascading deletes and deterministic creation times.
type memStore struct {
	nextID      uint
	clock       time.Time
	users       []models.User
	followers   map[[2]uint]bool
	articles    []models.Article
	versions    []models.ArticleVersion
	tags        []models.Tag
	articleTags []models.ArticleTag
	favorites   map[[2]uint]bool
	comments    []models.Comment
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		followers: map[[2]uint]bool{},
		favorites: map[[2]uint]bool{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) user(id uint) *models.User {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}

func (s *memStore) userByName(username string) *models.User {
	for i := range s.users {
		if s.users[i].Username == username {
			return &s.users[i]
		}
	}
	return nil
}

func (s *memStore) article(slug string) *models.Article {
	for i := range s.articles {
		if s.articles[i].Slug == slug {
			return &s.articles[i]
		}
	}
	return nil
}

func (s *memStore) articleByID(id uint) *models.Article {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return &s.articles[i]
		}
	}
	return nil
}

func (s *memStore) tagNames(articleID uint) []string {
	names := []string{}
	for _, link := range s.articleTags {
		if link.ArticleID != articleID {
			continue
		}
		for _, tag := range s.tags {
			if tag.ID == link.TagID {
				names = append(names, tag.Name)
			}
		}
	}
	return names
}

func (s *memStore) favoriteCount(articleID uint) int64 {
	var n int64
	for key := range s.favorites {
		if key[1] == articleID {
			n++
		}
	}
	return n
}

func (s *memStore) feedRow(a models.Article, viewerID uint) models.ArticleFeedRow {
	author := s.user(a.AuthorID)
	return models.ArticleFeedRow{
		ID:              a.ID,
		AuthorID:        a.AuthorID,
		Slug:            a.Slug,
		Title:           a.Title,
		Description:     a.Description,
		Body:            a.Body,
		IsDraft:         a.IsDraft,
		CurrentVersion:  a.CurrentVersion,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		AuthorUsername:  author.Username,
		AuthorBio:       author.Bio,
		AuthorImage:     author.ImageURL,
		AuthorFollowing: s.followers[[2]uint{viewerID, a.AuthorID}],
		FavoritesCount:  s.favoriteCount(a.ID),
		Favorited:       s.favorites[[2]uint{viewerID, a.ID}],
		Tags:            s.tagNames(a.ID),
	}
}

func (s *memStore) addUser(username string) *models.UserDTO {
	u := models.User{
		ID:       s.id(),
		Username: username,
		Email:    username + "@example.com",
		Bio:      username + " bio",
	}
	s.users = append(s.users, u)
	return &models.UserDTO{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (s *memStore) follow(follower, following *models.UserDTO) {
	s.followers[[2]uint{follower.ID, following.ID}] = true
}

// users

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(_ *gorm.DB, user *models.User) error {
	user.ID = r.s.id()
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r memUserRepo) GetByIDOrNone(_ *gorm.DB, id uint) (*models.User, error) {
	if u := r.s.user(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r memUserRepo) GetByIDs(_ *gorm.DB, ids []uint) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.s.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (r memUserRepo) GetByUsernameOrNone(_ *gorm.DB, username string) (*models.User, error) {
	if u := r.s.userByName(username); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r memUserRepo) GetByEmailOrNone(_ *gorm.DB, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memUserRepo) Update(_ *gorm.DB, id uint, changes models.UserChanges) (*models.User, error) {
	u := r.s.user(id)
	if u == nil {
		return nil, models.ErrUserNotFound
	}
	if changes.Username != nil {
		u.Username = *changes.Username
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.Password = *changes.PasswordHash
	}
	if changes.Bio != nil {
		u.Bio = *changes.Bio
	}
	if changes.ImageURL != nil {
		u.ImageURL = changes.ImageURL
	}
	u.UpdatedAt = r.s.tick()
	cp := *u
	return &cp, nil
}

// followers

type memFollowerRepo struct{ s *memStore }

func (r memFollowerRepo) Exists(_ *gorm.DB, followerID, followingID uint) (bool, error) {
	return r.s.followers[[2]uint{followerID, followingID}], nil
}

func (r memFollowerRepo) FollowingAmong(_ *gorm.DB, followerID uint, followingIDs []uint) ([]uint, error) {
	out := []uint{}
	for _, id := range followingIDs {
		if r.s.followers[[2]uint{followerID, id}] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r memFollowerRepo) Create(_ *gorm.DB, followerID, followingID uint) error {
	key := [2]uint{followerID, followingID}
	if r.s.followers[key] {
		return errors.New("duplicate key value violates unique constraint")
	}
	r.s.followers[key] = true
	return nil
}

func (r memFollowerRepo) Delete(_ *gorm.DB, followerID, followingID uint) error {
	delete(r.s.followers, [2]uint{followerID, followingID})
	return nil
}

// articles

type memArticleRepo struct{ s *memStore }

func (r memArticleRepo) Add(db *gorm.DB, authorID uint, item models.CreateArticleInput) (*models.Article, error) {
	return r.insert(db, authorID, item, false)
}

func (r memArticleRepo) AddDraft(db *gorm.DB, authorID uint, item models.CreateArticleInput) (*models.Article, error) {
	return r.insert(db, authorID, item, true)
}

func (r memArticleRepo) insert(db *gorm.DB, authorID uint, item models.CreateArticleInput, draft bool) (*models.Article, error) {
	now := r.s.tick()
	a := models.Article{
		ID:             r.s.id(),
		AuthorID:       authorID,
		Slug:           helper.NewSlug(item.Title),
		Title:          item.Title,
		Description:    item.Description,
		Body:           item.Body,
		IsDraft:        draft,
		CurrentVersion: 1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.s.articles = append(r.s.articles, a)
	if _, err := r.AddVersion(db, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r memArticleRepo) GetBySlugOrNone(_ *gorm.DB, slug string) (*models.Article, error) {
	if a := r.s.article(slug); a != nil {
		cp := *a
		return &cp, nil
	}
	token := helper.SlugToken(slug)
	if token == "" {
		return nil, nil
	}
	for _, a := range r.s.articles {
		if strings.HasSuffix(a.Slug, "-"+token) {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r memArticleRepo) GetBySlug(db *gorm.DB, slug string) (*models.Article, error) {
	a, err := r.GetBySlugOrNone(db, slug)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, models.ErrArticleNotFound
	}
	return a, nil
}

func (r memArticleRepo) DeleteBySlug(_ *gorm.DB, slug string) error {
	a := r.s.article(slug)
	if a == nil {
		return nil
	}
	id := a.ID

	articles := r.s.articles[:0]
	for _, x := range r.s.articles {
		if x.ID != id {
			articles = append(articles, x)
		}
	}
	r.s.articles = articles

	versions := r.s.versions[:0]
	for _, v := range r.s.versions {
		if v.ArticleID != id {
			versions = append(versions, v)
		}
	}
	r.s.versions = versions

	links := r.s.articleTags[:0]
	for _, l := range r.s.articleTags {
		if l.ArticleID != id {
			links = append(links, l)
		}
	}
	r.s.articleTags = links

	comments := r.s.comments[:0]
	for _, c := range r.s.comments {
		if c.ArticleID != id {
			comments = append(comments, c)
		}
	}
	r.s.comments = comments

	for key := range r.s.favorites {
		if key[1] == id {
			delete(r.s.favorites, key)
		}
	}
	return nil
}

func (r memArticleRepo) UpdateBySlug(_ *gorm.DB, slug string, item models.UpdateArticleInput) (*models.Article, error) {
	a := r.s.article(slug)
	if a == nil {
		return nil, models.ErrArticleNotFound
	}
	if item.Title != nil {
		a.Title = *item.Title
		a.Slug = helper.RegenerateSlug(*item.Title, slug)
	}
	if item.Description != nil {
		a.Description = *item.Description
	}
	if item.Body != nil {
		a.Body = *item.Body
	}
	a.UpdatedAt = r.s.tick()
	cp := *a
	return &cp, nil
}

func (r memArticleRepo) IncrementVersion(_ *gorm.DB, articleID uint) (*models.Article, error) {
	a := r.s.articleByID(articleID)
	if a == nil {
		return nil, models.ErrArticleNotFound
	}
	a.CurrentVersion++
	cp := *a
	return &cp, nil
}

func (r memArticleRepo) AddVersion(_ *gorm.DB, article *models.Article) (*models.ArticleVersion, error) {
	for _, v := range r.s.versions {
		if v.ArticleID == article.ID && v.Version == article.CurrentVersion {
			return nil, errors.New("duplicate article version")
		}
	}
	v := models.ArticleVersion{
		ID:          r.s.id(),
		ArticleID:   article.ID,
		Version:     article.CurrentVersion,
		Title:       article.Title,
		Description: article.Description,
		Body:        article.Body,
		CreatedAt:   r.s.clock,
	}
	r.s.versions = append(r.s.versions, v)
	return &v, nil
}

func (r memArticleRepo) PublishDraft(_ *gorm.DB, slug string, authorID uint) (*models.Article, error) {
	a := r.s.article(slug)
	if a == nil || a.AuthorID != authorID {
		return nil, models.ErrArticleNotFound
	}
	a.IsDraft = false
	a.UpdatedAt = r.s.tick()
	cp := *a
	return &cp, nil
}

func (r memArticleRepo) GetVersions(_ *gorm.DB, slug string, authorID uint) ([]models.ArticleVersion, error) {
	a := r.s.article(slug)
	out := []models.ArticleVersion{}
	if a == nil || a.AuthorID != authorID {
		return out, nil
	}
	for _, v := range r.s.versions {
		if v.ArticleID == a.ID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r memArticleRepo) ListDrafts(_ *gorm.DB, authorID uint, limit, offset int) ([]models.ArticleFeedRow, error) {
	var drafts []models.Article
	for _, a := range r.s.articles {
		if a.IsDraft && a.AuthorID == authorID {
			drafts = append(drafts, a)
		}
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].CreatedAt.After(drafts[j].CreatedAt) })
	return r.rows(paginate(drafts, limit, offset), authorID), nil
}

func (r memArticleRepo) CountDrafts(_ *gorm.DB, authorID uint) (int64, error) {
	var n int64
	for _, a := range r.s.articles {
		if a.IsDraft && a.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r memArticleRepo) ListByFollowings(_ *gorm.DB, followerID uint, limit, offset int) ([]models.Article, error) {
	return paginate(r.following(followerID), limit, offset), nil
}

func (r memArticleRepo) ListByFollowingsV2(_ *gorm.DB, followerID uint, limit, offset int) ([]models.ArticleFeedRow, error) {
	return r.rows(paginate(r.following(followerID), limit, offset), followerID), nil
}

func (r memArticleRepo) ListByFilters(_ *gorm.DB, filters models.ArticleFilters, limit, offset int) ([]models.Article, error) {
	return paginate(r.matching(filters), limit, offset), nil
}

func (r memArticleRepo) ListByFiltersV2(_ *gorm.DB, viewerID uint, filters models.ArticleFilters, limit, offset int) ([]models.ArticleFeedRow, error) {
	return r.rows(paginate(r.matching(filters), limit, offset), viewerID), nil
}

func (r memArticleRepo) CountByFollowings(_ *gorm.DB, followerID uint) (int64, error) {
	return int64(len(r.following(followerID))), nil
}

func (r memArticleRepo) CountByFilters(_ *gorm.DB, filters models.ArticleFilters) (int64, error) {
	return int64(len(r.matching(filters))), nil
}

func (r memArticleRepo) following(followerID uint) []models.Article {
	out := []models.Article{}
	for _, a := range r.s.articles {
		if !a.IsDraft && r.s.followers[[2]uint{followerID, a.AuthorID}] {
			out = append(out, a)
		}
	}
	return out
}

func (r memArticleRepo) matching(filters models.ArticleFilters) []models.Article {
	out := []models.Article{}
	for _, a := range r.s.articles {
		if a.IsDraft {
			continue
		}
		if filters.Tag != "" && !contains(r.s.tagNames(a.ID), filters.Tag) {
			continue
		}
		if filters.Author != "" {
			author := r.s.userByName(filters.Author)
			if author == nil || author.ID != a.AuthorID {
				continue
			}
		}
		if filters.Favorited != "" {
			fan := r.s.userByName(filters.Favorited)
			if fan == nil || !r.s.favorites[[2]uint{fan.ID, a.ID}] {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func (r memArticleRepo) rows(articles []models.Article, viewerID uint) []models.ArticleFeedRow {
	out := make([]models.ArticleFeedRow, 0, len(articles))
	for _, a := range articles {
		out = append(out, r.s.feedRow(a, viewerID))
	}
	return out
}

// articles are appended in creation order, which is the feed order
func paginate(articles []models.Article, limit, offset int) []models.Article {
	if offset >= len(articles) {
		return []models.Article{}
	}
	end := offset + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[offset:end]
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// tags

type memTagRepo struct{ s *memStore }

func (r memTagRepo) CreateTags(_ *gorm.DB, names []string) ([]models.Tag, error) {
	out := []models.Tag{}
	for _, name := range helper.UniqueStrings(names) {
		found := false
		for _, t := range r.s.tags {
			if t.Name == name {
				out = append(out, t)
				found = true
				break
			}
		}
		if !found {
			t := models.Tag{ID: r.s.id(), Name: name, CreatedAt: r.s.clock}
			r.s.tags = append(r.s.tags, t)
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTagRepo) GetAll(_ *gorm.DB) ([]models.Tag, error) {
	out := append([]models.Tag(nil), r.s.tags...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// article tags

type memArticleTagRepo struct{ s *memStore }

func (r memArticleTagRepo) LinkTags(_ *gorm.DB, articleID uint, tagIDs []uint) error {
	for _, id := range tagIDs {
		linked := false
		for _, l := range r.s.articleTags {
			if l.ArticleID == articleID && l.TagID == id {
				linked = true
				break
			}
		}
		if !linked {
			r.s.articleTags = append(r.s.articleTags, models.ArticleTag{ArticleID: articleID, TagID: id, CreatedAt: r.s.clock})
		}
	}
	return nil
}

func (r memArticleTagRepo) TagsForArticle(_ *gorm.DB, articleID uint) ([]string, error) {
	return r.s.tagNames(articleID), nil
}

func (r memArticleTagRepo) TagsForArticles(_ *gorm.DB, articleIDs []uint) (map[uint][]string, error) {
	out := map[uint][]string{}
	for _, id := range articleIDs {
		if names := r.s.tagNames(id); len(names) > 0 {
			out[id] = names
		}
	}
	return out, nil
}

// favorites

type memFavoriteRepo struct{ s *memStore }

func (r memFavoriteRepo) Exists(_ *gorm.DB, userID, articleID uint) (bool, error) {
	return r.s.favorites[[2]uint{userID, articleID}], nil
}

func (r memFavoriteRepo) Count(_ *gorm.DB, articleID uint) (int64, error) {
	return r.s.favoriteCount(articleID), nil
}

func (r memFavoriteRepo) CountForArticles(_ *gorm.DB, articleIDs []uint) (map[uint]int64, error) {
	out := map[uint]int64{}
	for _, id := range articleIDs {
		if n := r.s.favoriteCount(id); n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (r memFavoriteRepo) FavoritedAmong(_ *gorm.DB, userID uint, articleIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	for _, id := range articleIDs {
		if r.s.favorites[[2]uint{userID, id}] {
			out[id] = true
		}
	}
	return out, nil
}

func (r memFavoriteRepo) Add(_ *gorm.DB, articleID, userID uint) error {
	key := [2]uint{userID, articleID}
	if r.s.favorites[key] {
		return models.ErrArticleAlreadyFavorited
	}
	r.s.favorites[key] = true
	return nil
}

func (r memFavoriteRepo) Remove(_ *gorm.DB, articleID, userID uint) error {
	delete(r.s.favorites, [2]uint{userID, articleID})
	return nil
}

// countingResolver records how the article service resolves authors.
type countingResolver struct {
	ProfileResolver
	single int
	batch  int
}

func (c *countingResolver) GetProfileByUserID(db *gorm.DB, userID uint, viewer *models.UserDTO) (*models.Profile, error) {
	c.single++
	return c.ProfileResolver.GetProfileByUserID(db, userID, viewer)
}

func (c *countingResolver) GetProfilesByUserIDs(db *gorm.DB, userIDs []uint, viewer *models.UserDTO) ([]models.Profile, error) {
	c.batch++
	return c.ProfileResolver.GetProfilesByUserIDs(db, userIDs, viewer)
}

// comments

type memCommentRepo struct{ s *memStore }

func (r memCommentRepo) Add(_ *gorm.DB, articleID, authorID uint, body string) (*models.Comment, error) {
	now := r.s.tick()
	c := models.Comment{
		ID:        r.s.id(),
		ArticleID: articleID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.comments = append(r.s.comments, c)
	return &c, nil
}

func (r memCommentRepo) Get(_ *gorm.DB, commentID uint) (*models.Comment, error) {
	for _, c := range r.s.comments {
		if c.ID == commentID {
			cp := c
			return &cp, nil
		}
	}
	return nil, models.ErrCommentNotFound
}

func (r memCommentRepo) List(_ *gorm.DB, articleID uint) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range r.s.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCommentRepo) Count(db *gorm.DB, articleID uint) (int64, error) {
	comments, _ := r.List(db, articleID)
	return int64(len(comments)), nil
}

func (r memCommentRepo) Delete(_ *gorm.DB, commentID uint) error {
	comments := r.s.comments[:0]
	for _, c := range r.s.comments {
		if c.ID != commentID {
			comments = append(comments, c)
		}
	}
	r.s.comments = comments
	return nil
}
