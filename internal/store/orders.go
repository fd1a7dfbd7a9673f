package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"database/sql"

	"auraverse/internal/models"
)

type orderRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	OrderDate  string `db:"order_date"`
	OrderTotal int64  `db:"order_total"`
	ItemsJSON  string `db:"items_json"`
	CreatedAt  string `db:"created_at"`
}

type activityRow struct {
	ID         string `db:"id"`
	Username   string `db:"username"`
	AvatarURL  string `db:"avatar_url"`
	OrderTotal int64  `db:"order_total"`
	OrderDate  string `db:"order_date"`
	ItemsJSON  string `db:"items_json"`
}

// Checkout performs the purchase as one transaction: debit the buyer's
// token balance through a guarded UPDATE, decrement stock for every cart item,
// and insert the order with a frozen snapshot of the purchased items.
// When allowOversell is false a cart item whose stock is exhausted fails
// the whole checkout; when true the decrement is skipped and the sale
// still records, so stock never goes negative either way.
func (s *Store) Checkout(ctx context.Context, userID string, items []models.Product, total int64, allowOversell bool) (*models.Order, error) {
	if total < 0 {
		return nil, ErrInvalidAmount
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty cart", ErrInvalidInput)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	defer tx.Rollback()

	var user models.UserRow
	err = tx.GetContext(ctx, &user, s.rebind("SELECT * FROM users WHERE id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	// The token floor rides on the debit itself, same as transfers: a
	// concurrent spend between our read and write matches zero rows
	// instead of driving the balance negative.
	res, err := tx.ExecContext(ctx,
		s.rebind("UPDATE users SET tokens = tokens - ? WHERE id = ? AND tokens >= ?"),
		total, userID, total)
	if err != nil {
		return nil, fmt.Errorf("failed to debit tokens: %w", err)
	}
	debited, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if debited == 0 {
		return nil, &InsufficientFundsError{
			UserID:    userID,
			Currency:  models.CurrencyToken,
			Available: user.Tokens,
			Requested: total,
		}
	}

	decrement := s.rebind("UPDATE products SET stock = stock - 1 WHERE id = ? AND stock > 0")
	for _, item := range items {
		res, err := tx.ExecContext(ctx, decrement, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock for %s: %w", item.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 && !allowOversell {
			return nil, &InsufficientStockError{ProductID: item.ID}
		}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	now := time.Now()
	order := &models.Order{
		ID:        newOrderID(),
		UserID:    userID,
		Date:      now.Format("2006-01-02 15:04:05"),
		Total:     total,
		Items:     items,
		CreatedAt: now.UTC().Format(time.RFC3339Nano),
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO orders
		(id, user_id, order_date, order_total, items_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		order.ID, order.UserID, order.Date, order.Total, string(itemsJSON), order.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrdersByUserID returns a user's orders newest first, item
// snapshots decoded. A row whose snapshot does not decode is store
// corruption and fails the read rather than defaulting.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows,
		s.rebind("SELECT * FROM orders WHERE user_id = ? ORDER BY created_at DESC"), userID); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		var items []models.Product
		if err := json.Unmarshal([]byte(row.ItemsJSON), &items); err != nil {
			return nil, fmt.Errorf("corrupt item snapshot on order %s: %w", row.ID, err)
		}
		orders = append(orders, models.Order{
			ID:        row.ID,
			UserID:    row.UserID,
			Date:      row.OrderDate,
			Total:     row.OrderTotal,
			Items:     items,
			CreatedAt: row.CreatedAt,
		})
	}
	return orders, nil
}

// ListRecentOrders joins the newest orders with their buyers for the
// activity feed, bounded by limit.
func (s *Store) ListRecentOrders(ctx context.Context, limit int) ([]models.ActivityFeedItem, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, s.rebind(`
		SELECT orders.id, users.username, users.avatar_url, orders.order_total, orders.order_date, orders.items_json
		FROM orders
		JOIN users ON orders.user_id = users.id
		ORDER BY orders.created_at DESC
		LIMIT ?`), limit); err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	feed := make([]models.ActivityFeedItem, 0, len(rows))
	for _, row := range rows {
		var items []models.Product
		if err := json.Unmarshal([]byte(row.ItemsJSON), &items); err != nil {
			return nil, fmt.Errorf("corrupt item snapshot on order %s: %w", row.ID, err)
		}
		feed = append(feed, models.ActivityFeedItem{
			OrderID:   row.ID,
			Username:  row.Username,
			AvatarURL: row.AvatarURL,
			Total:     row.OrderTotal,
			Date:      row.OrderDate,
			Items:     items,
		})
	}
	return feed, nil
}
