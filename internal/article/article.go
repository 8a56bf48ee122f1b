package article

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("article not found")

// Article is a published knowledge-base entry.
type Article struct {
	ID          int       `json:"articleId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    int       `json:"authorId"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Comment belongs to an article; ParentID links replies to their parent.
type Comment struct {
	ID        int       `json:"commentId"`
	ArticleID int       `json:"articleId"`
	UserID    int       `json:"userId"`
	Text      string    `json:"text"`
	ParentID  *int      `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Question is a free-form question submitted from the articles page.
type Question struct {
	ID          int       `json:"questionId"`
	UserID      int       `json:"userId"`
	Text        string    `json:"text"`
	SubmittedAt time.Time `json:"submittedAt"`
}
