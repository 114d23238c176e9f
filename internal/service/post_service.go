package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/internal/validation"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// Upload 表单上传的图片
type Upload struct {
	Filename string
	Content  io.Reader
}

// PostInput 创建/编辑帖子的表单数据
type PostInput struct {
	Text    string
	GroupID *uint
	Image   *Upload
}

// PostDetail 帖子详情页数据
type PostDetail struct {
	Post        *model.Post
	AuthorPosts int64
	Comments    []*model.Comment
}

// PostService 帖子读写
type PostService interface {
	Create(ctx context.Context, authorID uint, in PostInput) (*model.Post, error)
	Edit(ctx context.Context, requesterID, postID uint, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, requesterID, postID uint) error
	Get(ctx context.Context, postID uint) (*model.Post, error)
	// Authorize 返回帖子，非作者返回 ErrForbidden
	Authorize(ctx context.Context, requesterID, postID uint) (*model.Post, error)
	Detail(ctx context.Context, postID uint) (*PostDetail, error)
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	media       storage.Media
	now         Clock
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	commentRepo repository.CommentRepository,
	media storage.Media,
	now Clock,
) PostService {
	if now == nil {
		now = time.Now
	}
	return &postService{postRepo: postRepo, groupRepo: groupRepo, commentRepo: commentRepo, media: media, now: now}
}

func (s *postService) Create(ctx context.Context, authorID uint, in PostInput) (*model.Post, error) {
	text, err := validation.PostText(in.Text)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	image, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Text:     text,
		PubDate:  s.now(),
		AuthorID: authorID,
		GroupID:  in.GroupID,
		Image:    image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardImage(ctx, image)
		return nil, err
	}
	logger.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", authorID))
	return post, nil
}

func (s *postService) Edit(ctx context.Context, requesterID, postID uint, in PostInput) (*model.Post, error) {
	post, err := s.Authorize(ctx, requesterID, postID)
	if err != nil {
		return nil, err
	}
	text, err := validation.PostText(in.Text)
	if err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	image, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	oldImage := post.Image
	post.Text = text
	post.GroupID = in.GroupID
	if image != "" {
		post.Image = image
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		s.discardImage(ctx, image)
		return nil, err
	}
	if image != "" && oldImage != "" {
		s.discardImage(ctx, oldImage)
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *postService) Delete(ctx context.Context, requesterID, postID uint) error {
	post, err := s.Authorize(ctx, requesterID, postID)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.discardImage(ctx, post.Image)
	return nil
}

func (s *postService) Get(ctx context.Context, postID uint) (*model.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *postService) Authorize(ctx context.Context, requesterID, postID uint) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != requesterID {
		return post, ErrForbidden
	}
	return post, nil
}

func (s *postService) Detail(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	authorID := post.AuthorID
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: &authorID})
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, AuthorPosts: count, Comments: comments}, nil
}

func (s *postService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	_, err := s.groupRepo.GetByID(ctx, *groupID)
	if errors.Is(err, repository.ErrNotFound) {
		return &validation.ValidationError{Field: "group", Message: "select a valid group"}
	}
	return err
}

func (s *postService) saveImage(ctx context.Context, up *Upload) (string, error) {
	if up == nil || s.media == nil {
		return "", nil
	}
	rel, err := s.media.Save(ctx, up.Filename, up.Content)
	if errors.Is(err, storage.ErrNotImage) {
		return "", &validation.ValidationError{Field: "image", Message: "upload a valid image"}
	}
	return rel, err
}

func (s *postService) discardImage(ctx context.Context, rel string) {
	if rel == "" || s.media == nil {
		return
	}
	if err := s.media.Remove(ctx, rel); err != nil {
		logger.Warn("remove image failed", zap.String("image", rel), zap.Error(err))
	}
}
