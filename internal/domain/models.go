// Package domain defines the persistence models for users, posts, and
// comments. These types are mapped with GORM and form the core data layer
// of the board application.
package domain

import "time"

// User is a registered account. Email is unique across all users and the
// password hash is never serialized.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Email: login identifier (unique index ux_users_email).
//   - Name: optional display name.
//   - Password: bcrypt digest (json:"-").
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	Email     string    `json:"email"     gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Name      *string   `json:"name"      gorm:"type:varchar(100)"`
	Password  string    `json:"-"         gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Post is an article written by a user. Posts are cascade-deleted with
// their author.
//
// CommentCount is read-only: it is populated only by queries that select a
// comment_count column (popular/search listings) and is never migrated.
type Post struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	Title     string    `json:"title"     gorm:"type:varchar(255);not null;index:idx_posts_title"`
	Content   string    `json:"content"   gorm:"type:text;not null"`
	Published bool      `json:"published" gorm:"not null;default:false"`
	AuthorID  uint      `json:"authorId"  gorm:"not null;index:idx_posts_author"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_posts_created"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author       *User     `json:"author,omitempty"   gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Comments     []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CommentCount int64     `json:"commentCount,omitempty" gorm:"->;-:migration"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Comment is a reply attached to a post.
type Comment struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	Content   string    `json:"content"   gorm:"type:text;not null"`
	PostID    uint      `json:"postId"    gorm:"not null;index:idx_comments_post"`
	AuthorID  uint      `json:"authorId"  gorm:"not null;index:idx_comments_author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Post   *Post `json:"post,omitempty"   gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Comment.
func (Comment) TableName() string { return "comments" }

// Identity is the authenticated caller, resolved per request from an access
// token. It carries no secret material.
type Identity struct {
	ID    uint    `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// DisplayName returns the identity's name or "" when unset.
func (i Identity) DisplayName() string {
	if i.Name == nil {
		return ""
	}
	return *i.Name
}
