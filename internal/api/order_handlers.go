package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justyntemme/bookinsights/internal/auth"
	"github.com/justyntemme/bookinsights/internal/models"
	"github.com/justyntemme/bookinsights/internal/storage"
)

// OrderStore persists orders per user
type OrderStore interface {
	CreateOrder(user, item string) (*models.Order, error)
	ListOrders(user string) ([]models.Order, error)
	GetOrder(id int64, user string) (*models.Order, error)
	DeleteOrder(id int64, user string) (int64, error)
}

// OrderHandler serves the /orders routes
type OrderHandler struct {
	orders OrderStore
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderStore) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	Item string `json:"item"`
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Item) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}

	order, err := h.orders.CreateOrder(auth.GetUserID(c), strings.TrimSpace(req.Item))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(auth.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(id, auth.GetUserID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	count, err := h.orders.DeleteOrder(id, auth.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return id, true
}
