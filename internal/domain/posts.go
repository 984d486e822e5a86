package domain

import "time"

type PostPrivacy string

const (
	PrivacyPublic      PostPrivacy = "public"
	PrivacyConnections PostPrivacy = "connections"
)

// Post counters are denormalized; they are maintained with atomic relative
// updates at the store layer, never read-modify-write.
type Post struct {
	ID            string      `json:"id"`
	AuthorID      string      `json:"author_id"`
	Content       string      `json:"content"`
	Category      string      `json:"category,omitempty"`
	Privacy       PostPrivacy `json:"privacy"`
	ImageURLs     []string    `json:"image_urls,omitempty"`
	SharedPostID  string      `json:"shared_post_id,omitempty"`
	LikesCount    int         `json:"likes_count"`
	CommentsCount int         `json:"comments_count"`
	SharesCount   int         `json:"shares_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

// PostCounter names one of the denormalized counters derived from the
// like/comment/share sets.
type PostCounter string

const (
	CounterLikes    PostCounter = "likes_count"
	CounterComments PostCounter = "comments_count"
	CounterShares   PostCounter = "shares_count"
)

// SharedPostSummary is the nested view of an original post inside a share.
type SharedPostSummary struct {
	ID        string      `json:"id"`
	Author    UserSummary `json:"author"`
	Content   string      `json:"content"`
	ImageURLs []string    `json:"image_urls,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// FeedPost is a post shaped for a specific viewer. SharedPost is null when
// the post is not a share or when the original has been deleted.
type FeedPost struct {
	Post
	Author     UserSummary        `json:"author"`
	IsLiked    bool               `json:"is_liked"`
	SharedPost *SharedPostSummary `json:"shared_post,omitempty"`
}

type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentWithUser struct {
	Comment
	User UserSummary `json:"user"`
}
