package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
	"github.com/entregago/entrega/internal/domain/model"
	"github.com/entregago/entrega/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on. pgxmock
// satisfies it in tests.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type restaurantRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Restaurants() repository.RestaurantRepository {
	return &restaurantRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS restaurants (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            address TEXT NOT NULL,
            delivery_fee DOUBLE PRECISION NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES users(id),
            restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
            restaurant_name TEXT NOT NULL,
            delivery_address TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            subtotal DOUBLE PRECISION NOT NULL,
            delivery_fee DOUBLE PRECISION NOT NULL,
            tax DOUBLE PRECISION NOT NULL,
            total DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            estimated_delivery_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            product_id TEXT NOT NULL,
            name TEXT NOT NULL,
            quantity INT NOT NULL,
            unit_price DOUBLE PRECISION NOT NULL,
            line_total DOUBLE PRECISION NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_tracking (
            id SERIAL PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            status TEXT NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL,
            description TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_order ON order_tracking(order_id, id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- RestaurantRepository implementation ---

func (r *restaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	const query = `SELECT id, name, address, delivery_fee, created_at FROM restaurants ORDER BY name`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Restaurant
	for rows.Next() {
		var rt model.Restaurant
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Address, &rt.DeliveryFee, &rt.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *restaurantRepository) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	const query = `SELECT id, name, address, delivery_fee, created_at FROM restaurants WHERE id=$1`
	var rt model.Restaurant
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&rt.ID, &rt.Name, &rt.Address, &rt.DeliveryFee, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, customer_id, restaurant_id, restaurant_name, delivery_address,
       payment_method, subtotal, delivery_fee, tax, total, status, created_at, estimated_delivery_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.CustomerID, &o.RestaurantID, &o.RestaurantName, &o.DeliveryAddress,
		&o.PaymentMethod, &o.Subtotal, &o.DeliveryFee, &o.Tax, &o.Total, &o.Status,
		&o.CreatedAt, &o.EstimatedDeliveryTime)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domainErrors.ErrValidation)
	}
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, customer_id, restaurant_id, restaurant_name, delivery_address,
                             payment_method, subtotal, delivery_fee, tax, total, status, created_at, estimated_delivery_at)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
		_, err := tx.Exec(ctx, insertOrder, order.ID, order.CustomerID, order.RestaurantID, order.RestaurantName,
			order.DeliveryAddress, order.PaymentMethod, order.Subtotal, order.DeliveryFee, order.Tax,
			order.Total, order.Status, order.CreatedAt, order.EstimatedDeliveryTime)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, line_total)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for _, item := range order.Items {
			if _, err := tx.Exec(ctx, insertItem, order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal); err != nil {
				return err
			}
		}

		const insertTracking = `INSERT INTO order_tracking (order_id, status, recorded_at, description)
                                VALUES ($1, $2, $3, $4)`
		for _, entry := range order.TrackingHistory {
			if _, err := tx.Exec(ctx, insertTracking, order.ID, entry.Status, entry.Timestamp, entry.Description); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	if err := r.loadTracking(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := r.loadItems(ctx, &result[i]); err != nil {
			return nil, err
		}
		if err := r.loadTracking(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *orderRepository) loadItems(ctx context.Context, order *model.Order) error {
	const query = `SELECT product_id, name, quantity, unit_price, line_total
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *orderRepository) loadTracking(ctx context.Context, order *model.Order) error {
	const query = `SELECT status, recorded_at, description
                   FROM order_tracking WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry model.TrackingEntry
		if err := rows.Scan(&entry.Status, &entry.Timestamp, &entry.Description); err != nil {
			return err
		}
		order.TrackingHistory = append(order.TrackingHistory, entry)
	}
	return rows.Err()
}

func (r *orderRepository) SelectAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE status = 'pending_payment'
                    ORDER BY created_at
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var o model.Order
			if err := scanOrder(rows, &o); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ApplyTransition(ctx context.Context, orderID string, from, to model.OrderStatus, entry model.TrackingEntry) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updateQuery = `UPDATE orders SET status=$1 WHERE id=$2 AND status=$3`
		tag, err := tx.Exec(ctx, updateQuery, to, orderID, from)
		if err != nil {
			return err
		}
		// Zero rows means a concurrent writer already moved the order on.
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: order %s is no longer %s", domainErrors.ErrInvalidTransition, orderID, from)
		}

		const insertTracking = `INSERT INTO order_tracking (order_id, status, recorded_at, description)
                                VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, insertTracking, orderID, entry.Status, entry.Timestamp, entry.Description); err != nil {
			return err
		}
		return nil
	})
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
