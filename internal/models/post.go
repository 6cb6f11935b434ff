// internal/models/post.go
package models

type Post struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"imageUrls,omitempty"`
	// Products tagged in the post, by id.
	ProductIDs []string `json:"productIds,omitempty"`
	// Cached aggregates. The like-set and the active comment count are
	// authoritative; these are rewritten from them on every mutation.
	LikeCount    int           `json:"likeCount"`
	CommentCount int           `json:"commentCount"`
	LikedByMe    bool          `json:"likedByMe,omitempty"`
	Status       ContentStatus `json:"status"`
	Timestamps
}

func (p *Post) Visible() bool {
	return p.Status.Normalized() == ContentStatusActive
}

type Comment struct {
	ID      string `json:"id"`
	PostID  string `json:"postId"`
	UserID  string `json:"userId"`
	Content string `json:"content"`
	// Optional parent for nested replies.
	ParentID string        `json:"parentId,omitempty"`
	Status   ContentStatus `json:"status"`
	Timestamps
}

func (c *Comment) Visible() bool {
	return c.Status.Normalized() == ContentStatusActive
}
