package blog

import (
	"time"

	"github.com/dmitrymomot/blogkit/pkg/query"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post is a row of the posts table. Author is filled from users.username when
// the post is read with its author.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	Status    string    `json:"status"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func postFromRow(r query.Row) Post {
	return Post{
		ID:        r.Int64("id"),
		UserID:    r.Int64("user_id"),
		Title:     r.String("title"),
		Content:   r.String("content"),
		Category:  r.String("category"),
		Status:    r.String("status"),
		Author:    r.String("username"),
		CreatedAt: r.Time("created_at"),
		UpdatedAt: r.Time("updated_at"),
	}
}

// User is a row of the users table. The password hash never leaves the package
// in JSON.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func userFromRow(r query.Row) User {
	u := User{
		ID:           r.Int64("id"),
		Username:     r.String("username"),
		Email:        r.String("email"),
		Role:         r.String("role"),
		PasswordHash: r.String("password"),
		CreatedAt:    r.Time("created_at"),
	}
	if t := r.Time("last_login"); !t.IsZero() {
		u.LastLogin = &t
	}
	return u
}

// PopularTerm is a search term with the number of times it was searched.
type PopularTerm struct {
	Term  string `json:"search_term"`
	Count int64  `json:"count"`
}

// PostPage is one page of post results.
type PostPage struct {
	Posts      []Post      `json:"results"`
	Total      int64       `json:"total"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Query      string      `json:"query,omitempty"`
}

// UserPage is one page of user results.
type UserPage struct {
	Users      []User      `json:"results"`
	Total      int64       `json:"total"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Query      string      `json:"query,omitempty"`
}
