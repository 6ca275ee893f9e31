package services

import (
	"errors"
	"strings"

	"linknest/internal/models"

	"gorm.io/gorm"
)

// ContentService owns posts and comments and their referential relationships.
// Every create validates its references inside the same transaction as the
// insert, so a referenced row cannot disappear between check and write.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

// CreatePost stores a new post for authorID. The link is optional; the title
// is not. Identifier and UTC timestamp are assigned at insert time.
func (s *ContentService) CreatePost(title, link string, authorID uint) (*models.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidInput
	}

	post := models.Post{
		UserID: authorID,
		Title:  title,
		URL:    link,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
			return storageErr("checking author", err)
		}
		if count == 0 {
			return ErrUnknownAuthor
		}
		if err := tx.Create(&post).Error; err != nil {
			return storageErr("creating post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// ListPostsWithAuthors returns all posts in insertion order, each with its
// author loaded and its comment count filled.
func (s *ContentService) ListPostsWithAuthors() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Preload("User").Order("id ASC").Find(&posts).Error; err != nil {
		return nil, storageErr("listing posts", err)
	}
	if err := s.fillCommentCounts(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *ContentService) GetPost(id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, storageErr("loading post", err)
	}
	return &post, nil
}

// CreateComment stores a reply to postID, optionally nested under parentID.
// A parent must belong to the same post; cross-post nesting is rejected.
func (s *ContentService) CreateComment(text string, postID, authorID uint, parentID *uint) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   authorID,
		ParentID: parentID,
		Content:  text,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return storageErr("checking post", err)
		}
		if count == 0 {
			return ErrUnknownPost
		}

		if err := tx.Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
			return storageErr("checking author", err)
		}
		if count == 0 {
			return ErrUnknownAuthor
		}

		if parentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidParent
				}
				return storageErr("checking parent comment", err)
			}
			if parent.PostID != postID {
				return ErrInvalidParent
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return storageErr("creating comment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListCommentsForPost returns the post's comments flat, in insertion order,
// each with its author loaded. Callers rebuild the reply tree from ParentID;
// the repository does not materialize it.
func (s *ContentService) ListCommentsForPost(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, storageErr("listing comments", err)
	}
	return comments, nil
}

// fillCommentCounts 批量填充帖子的评论数量
func (s *ContentService) fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	err := s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results).Error
	if err != nil {
		return storageErr("counting comments", err)
	}

	countMap := make(map[uint]int, len(results))
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
	return nil
}
