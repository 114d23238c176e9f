package model

import "time"

// Post 帖子
// 作者删除时级联删除；分组删除时 group_id 置空
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"index:idx_post_pub_date;not null"`
	AuthorID uint      `json:"author_id" gorm:"index:idx_post_author;not null"`
	Author   User      `json:"author" gorm:"constraint:OnDelete:CASCADE;"`
	GroupID  *uint     `json:"group_id,omitempty" gorm:"index:idx_post_group"`
	Group    *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL;"`
	Image    string    `json:"image,omitempty" gorm:"type:varchar(255)"`
}

func (Post) TableName() string { return "posts" }

// String 返回正文前 15 个字符
func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > 15 {
		r = r[:15]
	}
	return string(r)
}
