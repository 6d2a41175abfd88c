package handlers

// Request bodies. `binding` rules are checked by middleware.ValidateJSON and
// each `msg` tag names the i18n key reported when its field fails, whether
// the rule fails or the JSON type is wrong.

// SignUpRequest is the JSON payload for POST /auth/signup.
type SignUpRequest struct {
	Email    string  `json:"email" binding:"required,email" msg:"not a valid email address" example:"kim@example.com"`
	Password string  `json:"password" binding:"required,min=6" msg:"password must be at least 6 characters" example:"s3cret!"`
	Name     *string `json:"name" binding:"omitnil,min=2" msg:"name must be at least 2 characters" example:"김철수"`
}

// LoginRequest is the JSON payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" msg:"not a valid email address"`
	Password string `json:"password" binding:"required" msg:"please enter the password"`
}

// CreateUserRequest is the JSON payload for POST /users.
type CreateUserRequest = SignUpRequest

// UpdateUserRequest is the JSON payload for PUT /users/{id}. Omitted fields
// are left unchanged; at least one must be present.
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitnil,email" msg:"not a valid email address"`
	Name     *string `json:"name" binding:"omitnil,min=2" msg:"name must be at least 2 characters"`
	Password *string `json:"password" binding:"omitnil,min=6" msg:"password must be at least 6 characters"`
}

func (r UpdateUserRequest) empty() bool {
	return r.Email == nil && r.Name == nil && r.Password == nil
}

// FirstPostRequest is the post part of CreateUserWithPostRequest.
type FirstPostRequest struct {
	Title     string `json:"title" binding:"required" msg:"please enter the post title"`
	Content   string `json:"content" binding:"required" msg:"please enter the post content"`
	Published *bool  `json:"published" msg:"published must be true or false"`
}

// CreateUserWithPostRequest is the JSON payload for POST /users/with-post.
type CreateUserWithPostRequest struct {
	User CreateUserRequest `json:"user"`
	Post FirstPostRequest  `json:"post"`
}

// CreatePostRequest is the JSON payload for POST /posts.
type CreatePostRequest struct {
	Title     string `json:"title" binding:"required" msg:"please enter a title" example:"첫 번째 게시글"`
	Content   string `json:"content" binding:"required" msg:"please enter the content" example:"안녕하세요"`
	AuthorID  uint   `json:"authorId" binding:"required" msg:"not a valid user ID" example:"1"`
	Published *bool  `json:"published" msg:"published must be true or false" example:"true"`
}

// UpdatePostRequest is the JSON payload for PUT /posts/{id}.
type UpdatePostRequest struct {
	Title     *string `json:"title" binding:"omitnil,min=1" msg:"please enter a title"`
	Content   *string `json:"content" binding:"omitnil,min=1" msg:"please enter the content"`
	Published *bool   `json:"published" msg:"published must be true or false"`
}

func (r UpdatePostRequest) empty() bool {
	return r.Title == nil && r.Content == nil && r.Published == nil
}

// CreateCommentRequest is the JSON payload for POST /comments.
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required" msg:"please enter the comment content" example:"좋은 글이네요"`
	AuthorID uint   `json:"authorId" binding:"required" msg:"not a valid user ID" example:"1"`
	PostID   uint   `json:"postId" binding:"required" msg:"not a valid post ID" example:"1"`
}

// UpdateCommentRequest is the JSON payload for PUT /comments/{id}.
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required" msg:"please enter the comment content"`
}

// CreatePostWithCommentRequest is the JSON payload for
// POST /transactions/posts-with-comment.
type CreatePostWithCommentRequest struct {
	AuthorID       uint   `json:"authorId" binding:"required" msg:"not a valid author ID"`
	Title          string `json:"title" binding:"required" msg:"please enter the post title"`
	Content        string `json:"content" binding:"required" msg:"please enter the post content"`
	CommentContent string `json:"commentContent" binding:"required" msg:"please enter the comment content"`
}
