package cli

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// app 是各子命令共用的启动结果
type app struct {
	cfg *config.Config
	db  *gorm.DB

	users     service.UserService
	groups    service.GroupService
	posts     service.PostService
	comments  service.CommentService
	feed      service.FeedService
	relations service.RelationshipService
}

// openApp 加载配置、初始化日志、连接并迁移数据库
func openApp(opts *RootOptions) (*app, error) {
	cfg, err := config.LoadFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	media := storage.NewLocalMedia(cfg.Media.Root)

	return &app{
		cfg:       cfg,
		db:        db,
		users:     service.NewUserService(userRepo),
		groups:    service.NewGroupService(groupRepo),
		posts:     service.NewPostService(postRepo, groupRepo, commentRepo, media, time.Now),
		comments:  service.NewCommentService(commentRepo, postRepo, time.Now),
		feed:      service.NewFeedService(postRepo, groupRepo, userRepo),
		relations: service.NewRelationshipService(followRepo, userRepo),
	}, nil
}

func (a *app) close() {
	_ = logger.Sync()
	_ = database.Close(a.db)
}
