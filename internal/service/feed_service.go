package service

import (
	"context"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/pagination"
	"github.com/d60-Lab/yatube/internal/repository"
)

// FeedKind 列表上下文
type FeedKind int

const (
	FeedAll FeedKind = iota
	FeedGroup
	FeedAuthor
	FeedFollowing
)

// FeedFilter 列表过滤条件
type FeedFilter struct {
	Kind       FeedKind
	GroupSlug  string
	Username   string
	FollowerID uint
}

func AllPosts() FeedFilter                { return FeedFilter{Kind: FeedAll} }
func ByGroup(slug string) FeedFilter      { return FeedFilter{Kind: FeedGroup, GroupSlug: slug} }
func ByAuthor(username string) FeedFilter { return FeedFilter{Kind: FeedAuthor, Username: username} }
func FollowingOf(userID uint) FeedFilter  { return FeedFilter{Kind: FeedFollowing, FollowerID: userID} }

// FeedPage 一页帖子及其上下文
type FeedPage struct {
	Items  []*model.Post
	Page   pagination.Page
	Group  *model.Group
	Author *model.User
}

// FeedService 帖子列表（全站 / 分组 / 作者 / 关注）
type FeedService interface {
	List(ctx context.Context, f FeedFilter, page int) (*FeedPage, error)
}

type feedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	pageSize  int
}

func NewFeedService(postRepo repository.PostRepository, groupRepo repository.GroupRepository, userRepo repository.UserRepository) FeedService {
	return &feedService{postRepo: postRepo, groupRepo: groupRepo, userRepo: userRepo, pageSize: pagination.DefaultPageSize}
}

func (s *feedService) List(ctx context.Context, f FeedFilter, page int) (*FeedPage, error) {
	out := &FeedPage{}
	var q repository.PostFilter

	switch f.Kind {
	case FeedGroup:
		g, err := s.groupRepo.GetBySlug(ctx, f.GroupSlug)
		if err != nil {
			return nil, err
		}
		out.Group = g
		q.GroupID = &g.ID
	case FeedAuthor:
		u, err := s.userRepo.GetByUsername(ctx, f.Username)
		if err != nil {
			return nil, err
		}
		out.Author = u
		q.AuthorID = &u.ID
	case FeedFollowing:
		follower := f.FollowerID
		q.FollowerID = &follower
	}

	total, err := s.postRepo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	out.Page = pagination.New(page, s.pageSize, total)

	if total == 0 {
		out.Items = []*model.Post{}
		return out, nil
	}
	items, err := s.postRepo.List(ctx, q, out.Page.Offset(), out.Page.Size)
	if err != nil {
		return nil, err
	}
	out.Items = items
	return out, nil
}
