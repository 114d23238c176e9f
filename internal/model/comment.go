package model

import "time"

// Comment 评论；帖子删除后 post_id 置空，评论保留
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	PostID   *uint     `json:"post_id" gorm:"index:idx_comment_post"`
	Post     *Post     `json:"-" gorm:"constraint:OnDelete:SET NULL;"`
	AuthorID uint      `json:"author_id" gorm:"index:idx_comment_author;not null"`
	Author   User      `json:"author" gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Created  time.Time `json:"created" gorm:"not null"`
}

func (Comment) TableName() string { return "comments" }

func (c Comment) String() string { return c.Text }
