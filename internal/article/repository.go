package article

import (
	"sort"
	"sync"
	"time"
)

// Repository provides access to articles, comments and questions.
type Repository interface {
	ListArticles() ([]Article, error)
	GetArticle(id int) (Article, error)
	// ListComments returns an article's comments oldest-first.
	ListComments(articleID int) ([]Comment, error)
	AddComment(c Comment) (Comment, error)
	AddQuestion(q Question) (Question, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu        sync.Mutex
	nextID    int
	articles  []Article
	comments  []Comment
	questions []Question
}

func NewInMemoryRepository(articles []Article) *InMemoryRepository {
	return &InMemoryRepository{nextID: 1, articles: append([]Article(nil), articles...)}
}

func (r *InMemoryRepository) ListArticles() ([]Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Article(nil), r.articles...)
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetArticle(id int) (Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

func (r *InMemoryRepository) ListComments(articleID int) ([]Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Comment, 0)
	for _, c := range r.comments {
		if c.ArticleID == articleID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) AddComment(c Comment) (Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	r.comments = append(r.comments, c)
	return c, nil
}

func (r *InMemoryRepository) AddQuestion(q Question) (Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q.ID = r.nextID
	r.nextID++
	q.SubmittedAt = time.Now()
	r.questions = append(r.questions, q)
	return q, nil
}
