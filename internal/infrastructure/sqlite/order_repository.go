package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	domain "github.com/oculare/shop-backend/internal/domain/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	address TEXT NOT NULL,
	product TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK (quantity >= 1),
	tracking TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
`

// OrderRepository persists orders in a single sqlite table. Inserts are
// append-only; the tracking code is the only field updated later.
type OrderRepository struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the sqlite database at path and
// bootstraps the schema. WAL and a busy timeout keep concurrent readers
// and writers from tripping over each other.
func Open(path string) (*OrderRepository, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_loc=UTC", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &OrderRepository{db: db}, nil
}

func (r *OrderRepository) Close() error {
	return r.db.Close()
}

type orderRow struct {
	ID           int64     `db:"id"`
	CustomerName string    `db:"customer_name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Address      string    `db:"address"`
	Product      string    `db:"product"`
	Quantity     int       `db:"quantity"`
	Tracking     string    `db:"tracking"`
	CreatedAt    time.Time `db:"created_at"`
}

var insertOrderQuery = `INSERT INTO orders (customer_name, email, phone, address, product, quantity, tracking, created_at)
VALUES (:customer_name, :email, :phone, :address, :product, :quantity, :tracking, :created_at)`

func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) (int64, error) {
	res, err := r.db.NamedExecContext(ctx, insertOrderQuery, toRow(order))
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return res.LastInsertId()
}

var getOrderQuery = `SELECT * FROM orders WHERE id = ?`

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, getOrderQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return fromRow(row), nil
}

var setTrackingQuery = `UPDATE orders SET tracking = ? WHERE id = ?`

func (r *OrderRepository) SetTracking(ctx context.Context, id int64, tracking string) error {
	res, err := r.db.ExecContext(ctx, setTrackingQuery, tracking, id)
	if err != nil {
		return fmt.Errorf("set tracking: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set tracking: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var totalQuantityQuery = `SELECT COALESCE(SUM(quantity), 0) FROM orders`

func (r *OrderRepository) TotalQuantity(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total, totalQuantityQuery); err != nil {
		return 0, fmt.Errorf("total quantity: %w", err)
	}
	return total, nil
}

func toRow(o *domain.Order) orderRow {
	return orderRow{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Phone:        o.Phone,
		Address:      o.Address,
		Product:      o.Product,
		Quantity:     o.Quantity,
		Tracking:     o.Tracking,
		CreatedAt:    o.CreatedAt.UTC(),
	}
}

func fromRow(row orderRow) *domain.Order {
	return &domain.Order{
		ID:           row.ID,
		CustomerName: row.CustomerName,
		Email:        row.Email,
		Phone:        row.Phone,
		Address:      row.Address,
		Product:      row.Product,
		Quantity:     row.Quantity,
		Tracking:     row.Tracking,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}
