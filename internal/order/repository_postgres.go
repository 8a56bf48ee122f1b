package order

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listOrdersQuery = `
		SELECT order_id, user_id, total_price, promo_id, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, order_id DESC
	`
	listOrderItemsQuery = `
		SELECT order_item_id, order_id, item_id, quantity, price_per_item
		FROM order_items
		WHERE order_id = ANY($1::int[])
		ORDER BY order_item_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(listOrdersQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	ids := make([]int, 0)
	index := make(map[int]int)
	for rows.Next() {
		var o Order
		var total string
		var promoID sql.NullInt64
		if err := rows.Scan(&o.ID, &o.UserID, &total, &promoID, &o.CreatedAt); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(total)
		if err != nil {
			return nil, err
		}
		o.TotalPrice = d
		if promoID.Valid {
			v := int(promoID.Int64)
			o.PromoID = &v
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := r.db.Query(listOrderItemsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it OrderItem
		var price string
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ItemID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, err
		}
		it.PricePerItem = d
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}
