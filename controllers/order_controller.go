package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/config"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/kendall-kelly/whatsapp-order-bot/services"
	log "github.com/sirupsen/logrus"
)

// CreateOrderRequest represents the request body for entering an order by hand
type CreateOrderRequest struct {
	CustomerName    string   `json:"customer_name"`
	CustomerWA      string   `json:"customer_wa" binding:"required"`
	CustomerAddress string   `json:"customer_address"`
	Items           string   `json:"items" binding:"required"`
	Total           *float64 `json:"total" binding:"omitempty,gte=0"`
	Status          string   `json:"status"`
}

// UpdateOrderStatusRequest represents the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func orderStore() services.OrderStore {
	return services.NewOrderStore(config.GetDB())
}

// respondOrderError maps store errors onto the response envelope
func respondOrderError(c *gin.Context, err error, message string) {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Error(),
			},
		})
	default:
		log.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": message,
			},
		})
	}
}

// parseOrderID reads the :id path parameter
func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order ID must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// ListOrders handles GET /api/v1/orders - lists orders, newest first.
// ?status=<status> filters; "all" or empty returns every order.
func ListOrders(c *gin.Context) {
	store := orderStore()
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))

	var (
		orders []models.Order
		err    error
	)
	switch {
	case status == "" || status == "all":
		orders, err = store.ListAll()
	case models.OrderStatus(status).IsValid():
		orders, err = store.ListByStatus(models.OrderStatus(status))
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be one of: all, pending, confirmed, processing, completed, cancelled",
			},
		})
		return
	}
	if err != nil {
		respondOrderError(c, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := orderStore().Get(id)
	if err != nil {
		respondOrderError(c, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CreateOrder handles POST /api/v1/orders - manual order entry from the dashboard.
// When total is omitted the items text is priced against the menu once.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order := models.Order{
		CustomerName:    req.CustomerName,
		CustomerWA:      services.StripWhatsAppPrefix(strings.TrimSpace(req.CustomerWA)),
		CustomerAddress: req.CustomerAddress,
		Items:           req.Items,
		Status:          models.OrderStatus(strings.ToLower(req.Status)),
	}
	if req.Total != nil {
		order.Total = *req.Total
	} else {
		quote := services.GetResponder().Extract(req.Items)
		if len(quote.Rejected) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Item quantities are too large to price; provide a total",
					"details": strings.Join(quote.Rejected, ", "),
				},
			})
			return
		}
		order.Total = float64(quote.Total)
	}

	if _, err := orderStore().Create(&order); err != nil {
		respondOrderError(c, err, "Failed to create order")
		return
	}

	log.WithFields(log.Fields{"order_id": order.ID, "customer_wa": order.CustomerWA, "total": order.Total}).Info("Order created")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status. Any transition is allowed.
func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	status := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": "Status must be one of: pending, confirmed, processing, completed, cancelled",
			},
		})
		return
	}

	store := orderStore()
	if err := store.SetStatus(id, status); err != nil {
		respondOrderError(c, err, "Failed to update order status")
		return
	}

	order, err := store.Get(id)
	if err != nil {
		respondOrderError(c, err, "Failed to load order details")
		return
	}

	log.WithFields(log.Fields{"order_id": id, "status": status}).Info("Order status updated")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// SeedOrders handles POST /api/v1/admin/seed?confirm=yes - replaces every
// order with the demo data set. Refused in production.
func SeedOrders(c *gin.Context) {
	if cfg := config.GetConfig(); cfg != nil && cfg.IsProduction() {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RESET_FORBIDDEN",
				"message": "Resetting orders is disabled in production",
			},
		})
		return
	}

	if c.Query("confirm") != "yes" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RESET_NOT_CONFIRMED",
				"message": "This deletes every order. Repeat the request with ?confirm=yes",
			},
		})
		return
	}

	store := orderStore()
	if err := store.ResetWithSeed(models.SampleOrders()); err != nil {
		respondOrderError(c, err, "Failed to reset orders")
		return
	}

	orders, err := store.ListAll()
	if err != nil {
		respondOrderError(c, err, "Failed to retrieve orders")
		return
	}

	log.WithField("count", len(orders)).Warn("Orders reset with sample data")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}
