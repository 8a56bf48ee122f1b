package checkout

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/watering-store/backend/internal/cart"
	"github.com/watering-store/backend/internal/catalog"
	"github.com/watering-store/backend/internal/promo"
)

// PostgresStore backs checkouts with a database transaction. Row locks from
// SELECT ... FOR UPDATE serialize concurrent checkouts touching the same
// items or promo code; everything else proceeds in parallel.
type PostgresStore struct {
	db *sql.DB
}

const (
	lockItemQuery = `
		SELECT item_id, name, description, price, category, image, quantity, in_stock
		FROM items
		WHERE item_id = $1
		FOR UPDATE
	`
	lockPromoQuery = `
		SELECT promo_id, code, discount_percent, active
		FROM promo_codes
		WHERE lower(code) = lower($1) AND active
		FOR UPDATE
	`
	consumePromoTxQuery = `UPDATE promo_codes SET active = FALSE WHERE promo_id = $1 AND active`
	selectedLinesQuery  = `
		SELECT ci.cart_item_id, ci.cart_id, ci.item_id, ci.quantity
		FROM cart_items ci
		JOIN carts c ON c.cart_id = ci.cart_id
		WHERE c.user_id = $1 AND ci.cart_item_id = ANY($2::int[])
		ORDER BY ci.item_id
	`
	insertOrderQuery = `
		INSERT INTO orders (user_id, total_price, promo_id)
		VALUES ($1, $2, $3)
		RETURNING order_id
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, item_id, quantity, price_per_item)
		VALUES ($1, $2, $3, $4)
	`
	// the WHERE guard keeps a negative quantity from ever being persisted;
	// zero affected rows here is an invariant violation, not user error
	applyStockDeltaQuery = `
		UPDATE items
		SET quantity = quantity + $1, in_stock = (quantity + $1) > 0
		WHERE item_id = $2 AND quantity + $1 >= 0
	`
	deleteCartLineQuery = `DELETE FROM cart_items WHERE cart_item_id = $1`
)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Checkout(ctx context.Context, fn func(tx Tx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&pgTx{tx: dbTx}); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) LockItem(id int) (catalog.Item, error) {
	var it catalog.Item
	var price string
	var category, image sql.NullString
	err := t.tx.QueryRow(lockItemQuery, id).
		Scan(&it.ID, &it.Name, &it.Description, &price, &category, &image, &it.Quantity, &it.InStock)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.Item{}, catalog.ErrNotFound
		}
		return catalog.Item{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return catalog.Item{}, err
	}
	it.Price = d
	if category.Valid {
		it.Category = &category.String
	}
	if image.Valid {
		it.Image = &image.String
	}
	return it, nil
}

func (t *pgTx) FindActivePromoForUpdate(code string) (promo.PromoCode, error) {
	var p promo.PromoCode
	err := t.tx.QueryRow(lockPromoQuery, code).Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return promo.PromoCode{}, promo.ErrNotFound
		}
		return promo.PromoCode{}, err
	}
	return p, nil
}

func (t *pgTx) ConsumePromo(id int) (bool, error) {
	result, err := t.tx.Exec(consumePromoTxQuery, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (t *pgTx) SelectedLines(userID int, ids []int) ([]cart.CartLine, error) {
	if len(ids) == 0 {
		return []cart.CartLine{}, nil
	}
	rows, err := t.tx.Query(selectedLinesQuery, userID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cart.CartLine, 0, len(ids))
	for rows.Next() {
		var line cart.CartLine
		if err := rows.Scan(&line.ID, &line.CartID, &line.ItemID, &line.Quantity); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (t *pgTx) InsertOrder(userID int, total decimal.Decimal, promoID *int) (int, error) {
	var id int
	var promoArg any
	if promoID != nil {
		promoArg = *promoID
	}
	if err := t.tx.QueryRow(insertOrderQuery, userID, total, promoArg).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *pgTx) InsertOrderItem(orderID, itemID, qty int, pricePerItem decimal.Decimal) error {
	_, err := t.tx.Exec(insertOrderItemQuery, orderID, itemID, qty, pricePerItem)
	return err
}

func (t *pgTx) ApplyStockDelta(itemID, delta int) error {
	result, err := t.tx.Exec(applyStockDeltaQuery, delta, itemID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvariant
	}
	return nil
}

func (t *pgTx) DeleteCartLine(lineID int) error {
	_, err := t.tx.Exec(deleteCartLineQuery, lineID)
	return err
}
