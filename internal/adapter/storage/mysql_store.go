package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/port"
)

// ErrStockConflict means the durable decrement found less stock than the
// reservation layer promised. The order transaction is rolled back.
var ErrStockConflict = errors.New("stock conflict")

const mysqlDuplicateEntry = 1062

type MySQLStore struct {
	db            *sql.DB
	distributorID int64
}

func NewMySQLStore(db *sql.DB, distributorID int64) *MySQLStore {
	return &MySQLStore{db: db, distributorID: distributorID}
}

// Bootstrap creates the schema if it does not exist.
func (m *MySQLStore) Bootstrap(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			distributor_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			reorder_level INT NOT NULL DEFAULT 10,
			last_restocked DATETIME NOT NULL,
			UNIQUE KEY uq_inventory (distributor_id, product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			seller_id BIGINT NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			order_number VARCHAR(32) NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(32) NOT NULL,
			order_date DATETIME NOT NULL,
			estimated_delivery DATETIME NULL,
			UNIQUE KEY uq_order_number (order_number),
			KEY idx_orders_seller (seller_id, order_date)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			KEY idx_order_items_order (order_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// SeedInventory inserts missing inventory rows, leaving existing quantities alone.
func (m *MySQLStore) SeedInventory(ctx context.Context, records []domain.InventoryRecord) error {
	for _, rec := range records {
		_, err := m.db.ExecContext(ctx, `
			INSERT IGNORE INTO inventory (distributor_id, product_id, quantity, reorder_level, last_restocked)
			VALUES (?, ?, ?, ?, ?)`,
			rec.DistributorID, rec.ProductID, rec.Quantity, rec.ReorderLevel, rec.LastRestocked,
		)
		if err != nil {
			return fmt.Errorf("seed inventory for product %d: %w", rec.ProductID, err)
		}
	}
	return nil
}

func (m *MySQLStore) CreateOrder(ctx context.Context, order *domain.Order, reserved []domain.Reservation) (int64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var estimated sql.NullTime
	if order.EstimatedDelivery != nil {
		estimated = sql.NullTime{Time: *order.EstimatedDelivery, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO orders (seller_id, customer_name, order_number, total_amount, status, order_date, estimated_delivery)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.SellerID, order.CustomerName, order.OrderNumber, order.TotalAmount.StringFixed(2),
		order.Status, order.OrderDate, estimated,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, fmt.Errorf("order number %s: %w", order.OrderNumber, port.ErrDuplicateOrderNumber)
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}

	for _, line := range order.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?)`,
			id, line.ProductID, line.Quantity, line.UnitPrice.StringFixed(2),
		)
		if err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}

	for _, r := range reserved {
		res, err := tx.ExecContext(ctx, `
			UPDATE inventory
			SET quantity = quantity - ?
			WHERE distributor_id = ? AND product_id = ? AND quantity >= ?`,
			r.Quantity, m.distributorID, r.ProductID, r.Quantity,
		)
		if err != nil {
			return 0, fmt.Errorf("decrement inventory: %w", err)
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			return 0, fmt.Errorf("product %d: %w", r.ProductID, ErrStockConflict)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}

	order.ID = id
	return id, nil
}

func (m *MySQLStore) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return m.findOne(ctx, `WHERE id = ?`, id)
}

func (m *MySQLStore) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return m.findOne(ctx, `WHERE order_number = ?`, orderNumber)
}

func (m *MySQLStore) findOne(ctx context.Context, where string, arg any) (*domain.Order, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, seller_id, customer_name, order_number, total_amount, status, order_date, estimated_delivery
		FROM orders `+where, arg)

	order, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := m.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (m *MySQLStore) FindBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, seller_id, customer_name, order_number, total_amount, status, order_date, estimated_delivery
		FROM orders
		WHERE seller_id = ?
		ORDER BY order_date DESC, id DESC`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("query seller orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (m *MySQLStore) loadItems(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		var price string
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &price); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		line.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		items = append(items, line)
	}
	return items, rows.Err()
}

func (m *MySQLStore) ListInventory(ctx context.Context, distributorID int64) ([]domain.InventoryRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, distributor_id, product_id, quantity, reorder_level, last_restocked
		FROM inventory WHERE distributor_id = ? ORDER BY product_id`, distributorID)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	var records []domain.InventoryRecord
	for rows.Next() {
		var rec domain.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.DistributorID, &rec.ProductID, &rec.Quantity, &rec.ReorderLevel, &rec.LastRestocked); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var total string
	var estimated sql.NullTime

	err := row.Scan(&order.ID, &order.SellerID, &order.CustomerName, &order.OrderNumber,
		&total, &order.Status, &order.OrderDate, &estimated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}

	order.TotalAmount, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("parse total amount: %w", err)
	}
	if estimated.Valid {
		t := estimated.Time
		order.EstimatedDelivery = &t
	}
	return &order, nil
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// DefaultSeed is the initial inventory of distributor 1.
func DefaultSeed(distributorID int64, now time.Time) []domain.InventoryRecord {
	return []domain.InventoryRecord{
		{DistributorID: distributorID, ProductID: 1, Quantity: 50, ReorderLevel: 10, LastRestocked: now},
		{DistributorID: distributorID, ProductID: 2, Quantity: 75, ReorderLevel: 10, LastRestocked: now},
		{DistributorID: distributorID, ProductID: 3, Quantity: 25, ReorderLevel: 10, LastRestocked: now},
	}
}
