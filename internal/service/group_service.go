package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/validation"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// MaxSlugLen 与 groups.slug 列宽一致
const MaxSlugLen = 50

// GroupService 分组管理（管理员操作 + 公共读取）
type GroupService interface {
	Create(ctx context.Context, title, slug, description string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	Delete(ctx context.Context, slug string) error
}

type groupService struct {
	groupRepo repository.GroupRepository
}

func NewGroupService(groupRepo repository.GroupRepository) GroupService {
	return &groupService{groupRepo: groupRepo}
}

func (s *groupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" || len([]rune(title)) > 200 {
		return nil, &validation.ValidationError{Field: "title", Message: "title must be 1-200 characters"}
	}
	if !slugPattern.MatchString(slug) {
		return nil, &validation.ValidationError{Field: "slug", Message: "slug may contain only letters, numbers, underscores or hyphens"}
	}
	if len(slug) > MaxSlugLen {
		return nil, &validation.ValidationError{Field: "slug", Message: "slug must be at most 50 characters"}
	}
	g := &model.Group{Title: title, Slug: slug, Description: description}
	if err := s.groupRepo.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &validation.ValidationError{Field: "slug", Message: "group with this slug already exists"}
		}
		return nil, err
	}
	return g, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *groupService) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

func (s *groupService) Delete(ctx context.Context, slug string) error {
	return s.groupRepo.Delete(ctx, slug)
}
