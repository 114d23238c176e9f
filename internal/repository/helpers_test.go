package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/database"
)

// setupDB 创建临时 sqlite 库并迁移
func setupDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.OpenSQLite(filepath.Join(tb.TempDir(), "test.db"))
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func seedGroup(tb testing.TB, db *gorm.DB, slug string) *model.Group {
	tb.Helper()
	g := &model.Group{Title: "Group " + slug, Slug: slug, Description: "d"}
	if err := db.Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

var seedClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func seedPost(tb testing.TB, db *gorm.DB, author *model.User, group *model.Group, text string) *model.Post {
	tb.Helper()
	seedClock = seedClock.Add(time.Minute)
	p := &model.Post{Text: text, AuthorID: author.ID, PubDate: seedClock}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := db.Omit("Author", "Group").Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func ptr[T any](v T) *T { return &v }

func seedPosts(tb testing.TB, db *gorm.DB, author *model.User, n int) {
	tb.Helper()
	for i := 0; i < n; i++ {
		seedPost(tb, db, author, nil, fmt.Sprintf("post %d", i))
	}
}
