package article

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listArticlesQuery = `
		SELECT article_id, title, content, author_id, published_at
		FROM articles
		ORDER BY published_at DESC
	`
	getArticleQuery = `
		SELECT article_id, title, content, author_id, published_at
		FROM articles
		WHERE article_id = $1
	`
	listCommentsQuery = `
		SELECT comment_id, article_id, user_id, text, parent_id, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at
	`
	insertCommentQuery = `
		INSERT INTO comments (article_id, user_id, text, parent_id)
		VALUES ($1, $2, $3, $4)
		RETURNING comment_id, created_at
	`
	insertQuestionQuery = `
		INSERT INTO questions (user_id, question_text)
		VALUES ($1, $2)
		RETURNING question_id, submitted_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListArticles() ([]Article, error) {
	rows, err := r.db.Query(listArticlesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Article, 0)
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.PublishedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetArticle(id int) (Article, error) {
	var a Article
	err := r.db.QueryRow(getArticleQuery, id).Scan(&a.ID, &a.Title, &a.Content, &a.AuthorID, &a.PublishedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Article{}, ErrNotFound
		}
		return Article{}, err
	}
	return a, nil
}

func (r *PostgresRepository) ListComments(articleID int) ([]Comment, error) {
	rows, err := r.db.Query(listCommentsQuery, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.UserID, &c.Text, &parent, &c.CreatedAt); err != nil {
			return nil, err
		}
		if parent.Valid {
			v := int(parent.Int64)
			c.ParentID = &v
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddComment(c Comment) (Comment, error) {
	var parentArg any
	if c.ParentID != nil {
		parentArg = *c.ParentID
	}
	err := r.db.QueryRow(insertCommentQuery, c.ArticleID, c.UserID, c.Text, parentArg).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (r *PostgresRepository) AddQuestion(q Question) (Question, error) {
	err := r.db.QueryRow(insertQuestionQuery, q.UserID, q.Text).Scan(&q.ID, &q.SubmittedAt)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}
