package handler

import (
	"time"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/pagination"
)

// 以下为传给展示层的视图模型

type AuthorView struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type GroupView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type PostView struct {
	ID      uint       `json:"id"`
	Text    string     `json:"text"`
	PubDate time.Time  `json:"pub_date"`
	Author  AuthorView `json:"author"`
	Group   *GroupView `json:"group,omitempty"`
	Image   string     `json:"image,omitempty"`
}

type CommentView struct {
	ID      uint       `json:"id"`
	Text    string     `json:"text"`
	Author  AuthorView `json:"author"`
	Created time.Time  `json:"created"`
}

type FeedView struct {
	Posts []PostView      `json:"posts"`
	Page  pagination.Page `json:"page"`
}

type GroupFeedView struct {
	Group GroupView `json:"group"`
	FeedView
}

type ProfileView struct {
	Author     AuthorView `json:"author"`
	PostsCount int64      `json:"posts_count"`
	Following  bool       `json:"following"`
	FeedView
}

type PostDetailView struct {
	Post        PostView      `json:"post"`
	AuthorPosts int64         `json:"author_posts"`
	Comments    []CommentView `json:"comments"`
	CanEdit     bool          `json:"can_edit"`
}

type PostFormView struct {
	Form   postForm    `json:"form"`
	IsEdit bool        `json:"is_edit"`
	PostID uint        `json:"post_id,omitempty"`
	Groups []GroupView `json:"groups"`
}

func authorView(u model.User) AuthorView {
	return AuthorView{Username: u.Username, FullName: u.FullName()}
}

func groupView(g *model.Group) *GroupView {
	if g == nil {
		return nil
	}
	return &GroupView{ID: g.ID, Title: g.Title, Slug: g.Slug, Description: g.Description}
}

func postView(p *model.Post) PostView {
	v := PostView{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  authorView(p.Author),
		Group:   groupView(p.Group),
	}
	if p.Image != "" {
		v.Image = "/media/" + p.Image
	}
	return v
}

func feedView(items []*model.Post, page pagination.Page) FeedView {
	posts := make([]PostView, len(items))
	for i, p := range items {
		posts[i] = postView(p)
	}
	return FeedView{Posts: posts, Page: page}
}

func commentViews(items []*model.Comment) []CommentView {
	res := make([]CommentView, len(items))
	for i, c := range items {
		res[i] = CommentView{ID: c.ID, Text: c.Text, Author: authorView(c.Author), Created: c.Created}
	}
	return res
}

func groupViews(groups []*model.Group) []GroupView {
	res := make([]GroupView, len(groups))
	for i, g := range groups {
		res[i] = *groupView(g)
	}
	return res
}
