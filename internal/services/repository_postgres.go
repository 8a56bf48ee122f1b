package services

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listServicesQuery = `
		SELECT service_id, title, description, price
		FROM services
		ORDER BY service_id
	`
	getServiceQuery = `
		SELECT service_id, title, description, price
		FROM services
		WHERE service_id = $1
	`
	insertServiceOrderQuery = `
		INSERT INTO service_orders (user_id, service_id, name, phone, email, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING service_order_id, created_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanService(row interface{ Scan(dest ...any) error }) (Service, error) {
	var s Service
	var price sql.NullString
	if err := row.Scan(&s.ID, &s.Title, &s.Description, &price); err != nil {
		return Service{}, err
	}
	if price.Valid {
		d, err := decimal.NewFromString(price.String)
		if err != nil {
			return Service{}, err
		}
		s.Price = &d
	}
	return s, nil
}

func (r *PostgresRepository) ListServices() ([]Service, error) {
	rows, err := r.db.Query(listServicesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetService(id int) (Service, error) {
	s, err := scanService(r.db.QueryRow(getServiceQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Service{}, ErrNotFound
		}
		return Service{}, err
	}
	return s, nil
}

func (r *PostgresRepository) AddOrder(o ServiceOrder) (ServiceOrder, error) {
	err := r.db.QueryRow(insertServiceOrderQuery, o.UserID, o.ServiceID, o.Name, o.Phone, o.Email, o.Notes).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return ServiceOrder{}, err
	}
	return o, nil
}
