package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/justyntemme/bookinsights/internal/models"
)

// CreateOrder inserts a new order for user
func (d *Database) CreateOrder(user, item string) (*models.Order, error) {
	order := &models.Order{
		User:      user,
		Item:      item,
		CreatedAt: time.Now().UTC(),
	}

	res, err := d.db.Exec(`
		INSERT INTO orders (user, item, created_at)
		VALUES (?, ?, ?)`,
		order.User, order.Item, order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns a user's orders, newest first
func (d *Database) ListOrders(user string) ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT id, user, item, created_at
		FROM orders
		WHERE user = ?
		ORDER BY created_at DESC, id DESC`, user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.User, &order.Item, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// GetOrder retrieves an order by ID if it belongs to user
func (d *Database) GetOrder(id int64, user string) (*models.Order, error) {
	order := &models.Order{}
	err := d.db.QueryRow(`
		SELECT id, user, item, created_at
		FROM orders WHERE id = ? AND user = ?`, id, user,
	).Scan(&order.ID, &order.User, &order.Item, &order.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes an order owned by user and returns the number of rows deleted
func (d *Database) DeleteOrder(id int64, user string) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM orders WHERE id = ? AND user = ?`, id, user)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
