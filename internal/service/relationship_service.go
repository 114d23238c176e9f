package service

import (
	"context"

	"github.com/d60-Lab/yatube/internal/repository"
)

// RelationshipService 关注关系服务
type RelationshipService interface {
	Follow(ctx context.Context, userID uint, username string) error
	Unfollow(ctx context.Context, userID uint, username string) error
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	ListFollowing(ctx context.Context, username string, page, pageSize int) ([]string, error)
	ListFans(ctx context.Context, username string, page, pageSize int) ([]string, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

// Follow 幂等关注；不能关注自己
func (s *relationshipService) Follow(ctx context.Context, userID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return ErrFollowSelf
	}
	return s.followRepo.Create(ctx, userID, author.ID)
}

// Unfollow 幂等取消关注
func (s *relationshipService) Unfollow(ctx context.Context, userID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, userID, author.ID)
}

func (s *relationshipService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, username string, page, pageSize int) ([]string, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	offset := (page - 1) * pageSize
	items, err := s.followRepo.ListFollowings(ctx, u.ID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.Author.Username
	}
	return res, nil
}

func (s *relationshipService) ListFans(ctx context.Context, username string, page, pageSize int) ([]string, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	offset := (page - 1) * pageSize
	items, err := s.followRepo.ListFollowers(ctx, u.ID, offset, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.User.Username
	}
	return res, nil
}
