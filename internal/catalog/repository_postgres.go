package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	itemColumns = `item_id, name, description, price, category, image, quantity, in_stock`

	getItemQuery = `
		SELECT item_id, name, description, price, category, image, quantity, in_stock
		FROM items
		WHERE item_id = $1
	`
	listKitItemsQuery = `
		SELECT kit_item_id, kit_id, item_id, quantity
		FROM kit_items
		WHERE kit_id = ANY($1::int[])
		ORDER BY kit_item_id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListItems(f Filter) ([]Item, error) {
	if f.Type == "Kit" {
		return []Item{}, nil
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	where, args := itemConditions(f)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY item_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListKits(f Filter) ([]Kit, error) {
	// kits carry no category, so a category filter excludes them entirely
	if f.Type == "Item" || f.Category != "" {
		return []Kit{}, nil
	}

	query := `SELECT kit_id, name, description, price, image, quantity FROM kits`
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if f.PriceMin != nil {
		args = append(args, *f.PriceMin)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.PriceMax != nil {
		args = append(args, *f.PriceMax)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	if cond, searchArgs := searchCondition(f.Search, len(args)); cond != "" {
		where = append(where, cond)
		args = append(args, searchArgs...)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY kit_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Kit, 0)
	for rows.Next() {
		var k Kit
		var price sql.NullString
		var image sql.NullString
		if err := rows.Scan(&k.ID, &k.Name, &k.Description, &price, &image, &k.Quantity); err != nil {
			return nil, err
		}
		if price.Valid {
			d, err := decimal.NewFromString(price.String)
			if err != nil {
				return nil, err
			}
			k.Price = &d
		}
		if image.Valid {
			k.Image = &image.String
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachKitItems(out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachKitItems loads the composition rows for the listed kits.
func (r *PostgresRepository) attachKitItems(kits []Kit) error {
	if len(kits) == 0 {
		return nil
	}
	ids := make([]int, 0, len(kits))
	index := make(map[int]int, len(kits))
	for i, k := range kits {
		ids = append(ids, k.ID)
		index[k.ID] = i
	}

	rows, err := r.db.Query(listKitItemsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ki KitItem
		if err := rows.Scan(&ki.ID, &ki.KitID, &ki.ItemID, &ki.Quantity); err != nil {
			return err
		}
		if i, ok := index[ki.KitID]; ok {
			kits[i].Items = append(kits[i].Items, ki)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) GetItem(id int) (Item, error) {
	it, err := scanItem(r.db.QueryRow(getItemQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return it, nil
}

func itemConditions(f Filter) ([]string, []any) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.PriceMin != nil {
		args = append(args, *f.PriceMin)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.PriceMax != nil {
		args = append(args, *f.PriceMax)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	if cond, searchArgs := searchCondition(f.Search, len(args)); cond != "" {
		where = append(where, cond)
		args = append(args, searchArgs...)
	}
	return where, args
}

// searchCondition builds the word-wise OR match over name and description.
func searchCondition(search string, argOffset int) (string, []any) {
	words := strings.Fields(search)
	if len(words) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(words))
	args := make([]any, 0, len(words))
	for _, word := range words {
		args = append(args, "%"+word+"%")
		n := argOffset + len(args)
		parts = append(parts, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (Item, error) {
	var it Item
	var price string
	var category sql.NullString
	var image sql.NullString
	if err := scanner.Scan(&it.ID, &it.Name, &it.Description, &price, &category, &image, &it.Quantity, &it.InStock); err != nil {
		return Item{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Item{}, err
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
