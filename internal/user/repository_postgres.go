package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	userColumns = `user_id, username, email, password, is_verified, verification_code, created_at`

	createUserQuery = `
		INSERT INTO users (username, email, password, is_verified, verification_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_at
	`
	getUserByIDQuery    = `SELECT user_id, username, email, password, is_verified, verification_code, created_at FROM users WHERE user_id = $1`
	getUserByEmailQuery = `SELECT user_id, username, email, password, is_verified, verification_code, created_at FROM users WHERE lower(email) = lower($1)`
	updateUserQuery     = `
		UPDATE users
		SET username = $1, email = $2, password = $3, is_verified = $4, verification_code = $5
		WHERE user_id = $6
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(createUserQuery, u.Username, u.Email, u.Password, u.IsVerified, u.VerificationCode).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.scanOne(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return r.scanOne(r.db.QueryRow(getUserByEmailQuery, email))
}

func (r *PostgresRepository) Update(u User) (User, error) {
	result, err := r.db.Exec(updateUserQuery, u.Username, u.Email, u.Password, u.IsVerified, u.VerificationCode, u.ID)
	if err != nil {
		return User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (User, error) {
	var u User
	var code sql.NullString
	var createdAt sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.IsVerified, &code, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if code.Valid {
		u.VerificationCode = &code.String
	}
	if createdAt.Valid {
		u.CreatedAt = createdAt.String
	}
	return u, nil
}
