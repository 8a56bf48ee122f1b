package cart

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	// the cart row is created lazily on first use
	ensureCartQuery = `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING cart_id
	`
	upsertLineQuery = `
		INSERT INTO cart_items (cart_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING cart_item_id, cart_id, item_id, quantity
	`
	updateLineQuery = `
		UPDATE cart_items SET quantity = $1
		FROM carts
		WHERE cart_items.cart_item_id = $2
		  AND carts.cart_id = cart_items.cart_id
		  AND carts.user_id = $3
	`
	deleteLineQuery = `
		DELETE FROM cart_items
		USING carts
		WHERE cart_items.cart_item_id = $1
		  AND carts.cart_id = cart_items.cart_id
		  AND carts.user_id = $2
		RETURNING cart_items.cart_item_id, cart_items.cart_id, cart_items.item_id, cart_items.quantity
	`
	clearCartQuery = `
		DELETE FROM cart_items
		USING carts
		WHERE carts.cart_id = cart_items.cart_id AND carts.user_id = $1
	`
	listLinesQuery = `
		SELECT ci.cart_item_id, ci.cart_id, ci.item_id, ci.quantity
		FROM cart_items ci
		JOIN carts c ON c.cart_id = ci.cart_id
		WHERE c.user_id = $1
		ORDER BY ci.cart_item_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddItem(userID, itemID, qty int) (CartLine, error) {
	var cartID int
	if err := r.db.QueryRow(ensureCartQuery, userID).Scan(&cartID); err != nil {
		return CartLine{}, err
	}

	var line CartLine
	err := r.db.QueryRow(upsertLineQuery, cartID, itemID, qty).
		Scan(&line.ID, &line.CartID, &line.ItemID, &line.Quantity)
	if err != nil {
		return CartLine{}, err
	}
	return line, nil
}

func (r *PostgresRepository) UpdateLine(userID, lineID, qty int) error {
	if qty <= 0 {
		_, err := r.RemoveLine(userID, lineID)
		return err
	}

	result, err := r.db.Exec(updateLineQuery, qty, lineID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) RemoveLine(userID, lineID int) (CartLine, error) {
	var line CartLine
	err := r.db.QueryRow(deleteLineQuery, lineID, userID).
		Scan(&line.ID, &line.CartID, &line.ItemID, &line.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return CartLine{}, ErrLineNotFound
		}
		return CartLine{}, err
	}
	return line, nil
}

func (r *PostgresRepository) Clear(userID int) error {
	_, err := r.db.Exec(clearCartQuery, userID)
	return err
}

func (r *PostgresRepository) Lines(userID int) ([]CartLine, error) {
	rows, err := r.db.Query(listLinesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CartLine, 0)
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ItemID, &line.Quantity); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}
