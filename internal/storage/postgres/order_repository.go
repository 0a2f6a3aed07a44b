package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository builds the PostgreSQL OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Place inserts the order, its lines and decrements stock in one
// transaction. The decrement carries the floor in its WHERE clause, so a
// concurrent placement can never drive quantity below zero: the losing
// transaction simply updates zero rows and rolls back.
func (r *orderRepository) Place(ctx context.Context, order domain.Order) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(opCtx, `
		INSERT INTO orders (
			id, reference, user_id, status, amount_minor, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.Reference, order.UserID, string(order.Status),
		order.Amount, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, line := range order.Lines {
		var res sql.Result
		res, err = tx.ExecContext(opCtx, `
			UPDATE products
			SET quantity = quantity - $1, updated_at = NOW()
			WHERE id = $2 AND quantity >= $1
		`, line.Qty, line.ProductID)
		if err != nil {
			if isCheckViolation(err) {
				err = domain.ErrInsufficientStock
				return err
			}
			return fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement stock rows: %w", err)
		}
		if affected == 0 {
			// Zero rows means either the product is unknown or the floor
			// blocked the decrement. Disambiguate inside the same tx.
			var exists bool
			if scanErr := tx.QueryRowContext(opCtx, `
				SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)
			`, line.ProductID).Scan(&exists); scanErr != nil {
				err = fmt.Errorf("check product %s: %w", line.ProductID, scanErr)
				return err
			}
			if !exists {
				err = domain.ErrProductNotFound
			} else {
				err = domain.ErrInsufficientStock
			}
			return err
		}

		_, err = tx.ExecContext(opCtx, `
			INSERT INTO order_lines (
				id, order_id, product_id, qty, unit_price_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`, line.ID, order.ID, line.ProductID, line.Qty, line.UnitPrice, line.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				err = domain.ErrProductNotFound
				return err
			}
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit place order: %w", err)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var order domain.Order
	var status string
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, reference, user_id, status, amount_minor, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.Reference, &order.UserID, &status,
		&order.Amount, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	lines, err := r.loadLines(opCtx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Lines = lines
	return order, nil
}

func (r *orderRepository) List(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, reference, user_id, status, amount_minor, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`
	if limit > 0 {
		return r.listOrders(ctx, query+" LIMIT $1", limit)
	}
	return r.listOrders(ctx, query)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, reference, user_id, status, amount_minor, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	if limit > 0 {
		return r.listOrders(ctx, query+" LIMIT $2", userID, limit)
	}
	return r.listOrders(ctx, query, userID)
}

// UpdateStatus moves the order from one status to another. Both the source
// status and the ownership predicate live in the UPDATE itself; zero
// affected rows are disambiguated afterwards with a read.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, ownerID string, privileged bool) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(opCtx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND (user_id = $4 OR $5)
	`, string(to), id, string(from), ownerID, privileged)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status rows: %w", err)
	}
	if affected == 1 {
		return nil
	}
	return r.explainStatusFailure(opCtx, id, from, ownerID, privileged)
}

// AssignDelivery records the delivery and moves the validated order to
// IN_PROGRESS in a single transaction.
func (r *orderRepository) AssignDelivery(ctx context.Context, d domain.Delivery, ownerID string, privileged bool) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(opCtx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND (user_id = $4 OR $5)
	`, string(domain.OrderStatusInProgress), d.OrderID,
		string(domain.OrderStatusValidated), ownerID, privileged)
	if err != nil {
		return fmt.Errorf("update order for delivery: %w", err)
	}
	var affected int64
	affected, err = res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order for delivery rows: %w", err)
	}
	if affected == 0 {
		err = r.explainStatusFailureTx(opCtx, tx, d.OrderID, domain.OrderStatusValidated, ownerID, privileged)
		return err
	}

	_, err = tx.ExecContext(opCtx, `
		INSERT INTO deliveries (
			id, order_id, station_id, scheduled_at, driver_number, delivered_qty, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, d.ID, d.OrderID, d.StationID, d.ScheduledAt, d.DriverNumber, d.DeliveredQty, d.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			err = domain.ErrStationNotFound
			return err
		}
		return fmt.Errorf("insert delivery: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit assign delivery: %w", err)
	}
	return nil
}

func (r *orderRepository) explainStatusFailure(ctx context.Context, id string, from domain.OrderStatus, ownerID string, privileged bool) error {
	var userID, status string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, status FROM orders WHERE id = $1
	`, id).Scan(&userID, &status)
	return explainFrom(err, userID, status, from, ownerID, privileged)
}

func (r *orderRepository) explainStatusFailureTx(ctx context.Context, tx *sql.Tx, id string, from domain.OrderStatus, ownerID string, privileged bool) error {
	var userID, status string
	err := tx.QueryRowContext(ctx, `
		SELECT user_id, status FROM orders WHERE id = $1
	`, id).Scan(&userID, &status)
	return explainFrom(err, userID, status, from, ownerID, privileged)
}

// explainFrom turns a zero-row guarded UPDATE into the precise domain
// error: missing row, foreign owner, or wrong source status.
func explainFrom(err error, userID, status string, from domain.OrderStatus, ownerID string, privileged bool) error {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return fmt.Errorf("inspect order: %w", err)
	}
	if userID != ownerID && !privileged {
		return domain.ErrForbidden
	}
	if domain.OrderStatus(status) != from {
		return domain.ErrInvalidTransition
	}
	// The guarded row changed between the UPDATE and this read.
	return domain.ErrInvalidTransition
}

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var status string
		if err := rows.Scan(
			&order.ID, &order.Reference, &order.UserID, &status,
			&order.Amount, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		lines, err := r.loadLines(opCtx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *orderRepository) loadLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, qty, unit_price_minor, created_at
		FROM order_lines
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.ProductID,
			&line.Qty, &line.UnitPrice, &line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order lines: %w", err)
	}
	return lines, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
