package service

import (
	"errors"
	"time"

	"github.com/d60-Lab/yatube/internal/repository"
)

var (
	ErrNotFound      = repository.ErrNotFound
	ErrForbidden     = errors.New("forbidden")
	ErrFollowSelf    = errors.New("cannot follow self")
	ErrUsernameTaken = errors.New("username already taken")
	ErrInvalidLogin  = errors.New("invalid username or password")
)

// Clock 注入的时间源，pub_date / created 由它赋值
type Clock func() time.Time
