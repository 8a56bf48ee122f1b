package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"item_id", "name", "description", "price", "category", "image", "quantity", "in_stock"})
}

func TestPostgresCheckoutCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	engine := NewEngine(NewPostgresStore(db))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM items").WithArgs(1).
		WillReturnRows(itemRows().AddRow(1, "Drip hose 25m", "", "100.00", nil, nil, 5, true))
	mock.ExpectQuery("INSERT INTO orders").WithArgs(42, sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(9))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(9, 1, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE items").WithArgs(-2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := engine.BuyItem(context.Background(), 42, 1, 2, "")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if receipt.OrderID != 9 {
		t.Fatalf("expected order id 9, got %d", receipt.OrderID)
	}
	if got := receipt.Total.String(); got != "200" {
		t.Fatalf("expected total 200, got %s", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCheckoutRollsBackOnInsufficientStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	engine := NewEngine(NewPostgresStore(db))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM items").WithArgs(1).
		WillReturnRows(itemRows().AddRow(1, "Ball valve", "", "19.90", nil, nil, 1, true))
	mock.ExpectRollback()

	_, err = engine.BuyItem(context.Background(), 42, 1, 3, "")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCheckoutConsumesPromoInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	engine := NewEngine(NewPostgresStore(db))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM items").WithArgs(1).
		WillReturnRows(itemRows().AddRow(1, "Rain sensor", "", "49.50", nil, nil, 8, true))
	mock.ExpectQuery("FROM promo_codes").WithArgs("SAVE10").
		WillReturnRows(sqlmock.NewRows([]string{"promo_id", "code", "discount_percent", "active"}).
			AddRow(7, "SAVE10", 10, true))
	mock.ExpectExec("UPDATE promo_codes").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").WithArgs(42, sqlmock.AnyArg(), 7).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(3))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(3, 1, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE items").WithArgs(-1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := engine.BuyItem(context.Background(), 42, 1, 1, "SAVE10")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if got := receipt.Total.String(); got != "44.55" {
		t.Fatalf("expected discounted total 44.55, got %s", got)
	}
	if receipt.PromoWarning {
		t.Fatalf("winning promo consumption must not warn")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCheckoutLostPromoRaceWarns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	engine := NewEngine(NewPostgresStore(db))

	mock.ExpectBegin()
	mock.ExpectQuery("FROM items").WithArgs(1).
		WillReturnRows(itemRows().AddRow(1, "Rain sensor", "", "49.50", nil, nil, 8, true))
	mock.ExpectQuery("FROM promo_codes").WithArgs("SAVE10").
		WillReturnRows(sqlmock.NewRows([]string{"promo_id", "code", "discount_percent", "active"}).
			AddRow(7, "SAVE10", 10, true))
	// the compare-and-set loses: another checkout consumed the code first
	mock.ExpectExec("UPDATE promo_codes").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO orders").WithArgs(42, sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(4))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(4, 1, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE items").WithArgs(-1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	receipt, err := engine.BuyItem(context.Background(), 42, 1, 1, "SAVE10")
	if err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if got := receipt.Total.String(); got != "49.5" {
		t.Fatalf("lost race must charge full price, got %s", got)
	}
	if !receipt.PromoWarning {
		t.Fatalf("lost race must surface a promo warning")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStockGuardTripsInvariant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	engine := NewEngine(NewPostgresStore(db))

	// the row claims enough stock but the guarded update refuses to go
	// negative, which must abort the whole checkout
	mock.ExpectBegin()
	mock.ExpectQuery("FROM items").WithArgs(1).
		WillReturnRows(itemRows().AddRow(1, "Drip hose 25m", "", "100.00", nil, nil, 5, true))
	mock.ExpectQuery("INSERT INTO orders").WithArgs(42, sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"order_id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(5, 1, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE items").WithArgs(-2, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err = engine.BuyItem(context.Background(), 42, 1, 2, "")
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
