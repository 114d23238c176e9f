package service

import (
	"context"
	"time"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/validation"
)

// CommentService 评论
type CommentService interface {
	Create(ctx context.Context, authorID, postID uint, text string) (*model.Comment, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	now         Clock
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, now Clock) CommentService {
	if now == nil {
		now = time.Now
	}
	return &commentService{commentRepo: commentRepo, postRepo: postRepo, now: now}
}

// Create 评论必须挂在已存在的帖子上
func (s *commentService) Create(ctx context.Context, authorID, postID uint, text string) (*model.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	text, err := validation.CommentText(text)
	if err != nil {
		return nil, err
	}
	c := &model.Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   &postID,
		Created:  s.now(),
	}
	if err := s.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
