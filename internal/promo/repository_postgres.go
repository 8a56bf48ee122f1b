package promo

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	findActiveByCodeQuery = `
		SELECT promo_id, code, discount_percent, active
		FROM promo_codes
		WHERE lower(code) = lower($1) AND active
	`
	// compare-and-swap: only the caller that still sees active wins
	consumeQuery = `UPDATE promo_codes SET active = FALSE WHERE promo_id = $1 AND active`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindActiveByCode(code string) (PromoCode, error) {
	var p PromoCode
	err := r.db.QueryRow(findActiveByCodeQuery, code).Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return PromoCode{}, ErrNotFound
		}
		return PromoCode{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Consume(id int) (bool, error) {
	result, err := r.db.Exec(consumeQuery, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
