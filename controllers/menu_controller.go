package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/bot"
	"github.com/kendall-kelly/whatsapp-order-bot/services"
)

// MenuEntry is a catalog item with its display price
type MenuEntry struct {
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	FormattedPrice string `json:"formatted_price"`
}

// GetMenu handles GET /api/v1/menu - the catalog the reply engine prices against
func GetMenu(c *gin.Context) {
	catalog := services.GetResponder().Catalog()

	entries := make([]MenuEntry, 0, len(catalog))
	for _, item := range catalog {
		entries = append(entries, MenuEntry{
			Name:           item.Name,
			Price:          item.Price,
			FormattedPrice: bot.FormatRupiah(item.Price),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"count":   len(entries),
	})
}
