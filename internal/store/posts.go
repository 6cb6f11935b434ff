// internal/store/posts.go
package store

import (
	"strconv"

	"github.com/quangvu/bmarket/internal/models"
	"github.com/quangvu/bmarket/internal/utils"
)

type CreatePostRequest struct {
	UserID     string   `json:"userId" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	ImageURLs  []string `json:"imageUrls,omitempty"`
	ProductIDs []string `json:"productIds,omitempty"`
}

func (s *Store) CreatePost(req *CreatePostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if !s.settings.EnableNewPost {
		return nil, models.NewFeatureDisabled("new post")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}
	if s.findUser(req.UserID) == nil {
		return nil, models.NewNotFound("user", req.UserID)
	}

	post := &models.Post{
		ID:         s.nextPostID(),
		UserID:     req.UserID,
		Content:    req.Content,
		ImageURLs:  req.ImageURLs,
		ProductIDs: req.ProductIDs,
		Status:     models.ContentStatusActive,
	}
	post.Touch(s.now())

	s.posts = append(s.posts, post)
	s.savePosts()
	return post, nil
}

type ListPostsParams struct {
	// Cursor is an opaque offset returned by the previous page.
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	// ViewerID, when set, fills LikedByMe on the returned posts.
	ViewerID string `json:"viewerId,omitempty"`
}

type PostsPage struct {
	Items      []*models.Post `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func (s *Store) ListPosts(params ListPostsParams) (*PostsPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	visible := make([]*models.Post, 0)
	for _, p := range s.posts {
		if p.Visible() {
			visible = append(visible, p)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	start := 0
	if params.Cursor != "" {
		n, err := strconv.Atoi(params.Cursor)
		if err != nil || n < 0 {
			return &PostsPage{Items: []*models.Post{}}, nil
		}
		start = n
	}
	if start > len(visible) {
		start = len(visible)
	}
	end := start + limit
	if end > len(visible) {
		end = len(visible)
	}

	items := make([]*models.Post, 0, end-start)
	for _, p := range visible[start:end] {
		items = append(items, s.enrichPost(p, params.ViewerID))
	}

	page := &PostsPage{Items: items}
	if end < len(visible) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

// PostDetail is a post with its active comments.
type PostDetail struct {
	Post     *models.Post      `json:"post"`
	Comments []*models.Comment `json:"comments"`
}

func (s *Store) GetPostByID(postID, viewerID string) (*PostDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	post, _ := s.findPost(postID)
	if post == nil || !post.Visible() {
		return nil, models.NewNotFound("post", postID)
	}

	comments := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID && c.Visible() {
			comments = append(comments, c)
		}
	}
	return &PostDetail{Post: s.enrichPost(post, viewerID), Comments: comments}, nil
}

// enrichPost returns a copy with the viewer's like flag and the count
// re-derived from the like-set.
func (s *Store) enrichPost(post *models.Post, viewerID string) *models.Post {
	if viewerID == "" {
		return post
	}
	cp := *post
	set := s.postLikes[post.ID]
	_, cp.LikedByMe = set[viewerID]
	cp.LikeCount = len(set)
	return &cp
}

// LikeResult is the outcome of a toggle: the new flag and the live
// like-set size.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// TogglePostLike flips membership of (post, user) in the like-set. The
// set is the single source of truth; the post's cached counter is
// overwritten from the set size on every toggle. Liking notifies the
// post owner; unliking never retracts an earlier notification.
func (s *Store) TogglePostLike(postID, userID string) (*LikeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	post, _ := s.findPost(postID)
	if post == nil {
		return nil, models.NewNotFound("post", postID)
	}

	set := s.likeSet(postID)
	_, liked := set[userID]
	if liked {
		delete(set, userID)
	} else {
		set[userID] = struct{}{}
		if post.UserID != userID {
			s.notify(&models.Notification{
				UserID:  post.UserID,
				ActorID: userID,
				Type:    models.NotificationPostLiked,
				PostID:  postID,
				Title:   "New like",
				Body:    s.displayName(userID) + " liked your post",
			})
		}
	}

	post.LikeCount = len(set)
	s.savePosts()
	s.saveLikes()
	return &LikeResult{Liked: !liked, LikeCount: post.LikeCount}, nil
}

type AddCommentRequest struct {
	PostID  string `json:"postId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
	Content string `json:"content" validate:"required"`
	// Optional parent for nested replies.
	ParentID string `json:"parentId,omitempty"`
}

func (s *Store) AddComment(req *AddCommentRequest) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	if err := utils.ValidateStruct(req); err != nil {
		return nil, models.NewValidation("validation failed", err)
	}
	post, _ := s.findPost(req.PostID)
	if post == nil {
		return nil, models.NewNotFound("post", req.PostID)
	}

	comment := &models.Comment{
		ID:       s.nextCommentID(),
		PostID:   req.PostID,
		UserID:   req.UserID,
		Content:  req.Content,
		ParentID: req.ParentID,
		Status:   models.ContentStatusActive,
	}
	comment.Touch(s.now())
	s.comments = append(s.comments, comment)
	post.CommentCount = s.activeCommentCount(post.ID)

	if post.UserID != req.UserID {
		s.notify(&models.Notification{
			UserID:    post.UserID,
			ActorID:   req.UserID,
			Type:      models.NotificationPostCommented,
			PostID:    post.ID,
			CommentID: comment.ID,
			Title:     "New comment",
			Body:      s.displayName(req.UserID) + " commented on your post",
		})
	}

	s.saveComments()
	s.savePosts()
	return comment, nil
}

func (s *Store) activeCommentCount(postID string) int {
	n := 0
	for _, c := range s.comments {
		if c.PostID == postID && c.Visible() {
			n++
		}
	}
	return n
}

// DeletePost hard-removes the post and every comment referencing it,
// owner only. Like the product cascade, this is a permanent removal.
func (s *Store) DeletePost(postID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	post, idx := s.findPost(postID)
	if post == nil {
		return models.NewNotFound("post", postID)
	}
	if post.UserID != actorID {
		return models.NewUnauthorized("not authorized to delete this post")
	}

	s.posts = append(s.posts[:idx], s.posts[idx+1:]...)

	kept := s.comments[:0]
	for _, c := range s.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	s.comments = kept

	s.savePosts()
	s.saveComments()
	return nil
}

func (s *Store) DeleteComment(commentID, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	comment, idx := s.findComment(commentID)
	if comment == nil {
		return models.NewNotFound("comment", commentID)
	}
	if comment.UserID != actorID {
		return models.NewUnauthorized("not authorized to delete this comment")
	}

	s.comments = append(s.comments[:idx], s.comments[idx+1:]...)
	if post, _ := s.findPost(comment.PostID); post != nil {
		post.CommentCount = s.activeCommentCount(post.ID)
	}

	s.saveComments()
	s.savePosts()
	return nil
}

// ListPostsByUser returns the user's visible posts.
func (s *Store) ListPostsByUser(userID string) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.pause()

	result := make([]*models.Post, 0)
	for _, p := range s.posts {
		if p.UserID == userID && p.Visible() {
			result = append(result, p)
		}
	}
	return result, nil
}
