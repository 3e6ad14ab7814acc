package controllers

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/whatsapp-order-bot/bot"
	"github.com/kendall-kelly/whatsapp-order-bot/config"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"github.com/kendall-kelly/whatsapp-order-bot/services"
	log "github.com/sirupsen/logrus"
)

// DefaultMessageLimit is the number of logged messages returned by ListMessages
const DefaultMessageLimit = 50

// ProcessMessageRequest represents a dashboard dry run of the reply engine
type ProcessMessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message" binding:"required"`
}

// SendMessageRequest represents the request body for an outbound WhatsApp text
type SendMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// twimlResponse is the webhook reply understood by Twilio
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// recordMessage logs an exchange. Failures are logged and otherwise ignored
// so the customer still gets a reply.
func recordMessage(sender, body string, intent bot.Intent, reply string) *models.Message {
	message := &models.Message{
		Sender: sender,
		Body:   body,
		Intent: string(intent),
		Reply:  reply,
	}
	if err := config.GetDB().Create(message).Error; err != nil {
		log.WithError(err).WithField("sender", sender).Error("Failed to log message")
	}
	return message
}

// WhatsAppWebhook handles POST /api/v1/webhook/whatsapp - inbound messages from Twilio.
// The reply is returned inline as TwiML.
func WhatsAppWebhook(c *gin.Context) {
	sender := services.StripWhatsAppPrefix(c.PostForm("From"))
	body := c.PostForm("Body")

	intent, reply := services.GetResponder().Process(body, sender)
	recordMessage(sender, body, intent, reply)

	log.WithFields(log.Fields{
		"sender":      sender,
		"intent":      intent,
		"message_sid": c.PostForm("MessageSid"),
	}).Info("WhatsApp message received")

	c.XML(http.StatusOK, twimlResponse{Message: reply})
}

// ProcessMessage handles POST /api/v1/messages/process - runs the reply engine
// on a message typed into the dashboard
func ProcessMessage(c *gin.Context) {
	var req ProcessMessageRequest
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

	sender := services.StripWhatsAppPrefix(strings.TrimSpace(req.Sender))
	engine := services.GetResponder()
	intent, reply := engine.Process(req.Message, sender)
	message := recordMessage(sender, req.Message, intent, reply)

	data := gin.H{
		"intent": intent,
		"reply":  reply,
		"id":     message.ID,
	}

	// Order messages carry a draft the dashboard can submit as a manual order
	if intent == bot.IntentOrder {
		if quote := engine.Extract(req.Message); !quote.Empty() && len(quote.Rejected) == 0 {
			data["order_draft"] = gin.H{
				"customer_wa": sender,
				"items":       quote.Description(),
				"total":       quote.Total,
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// SendMessage handles POST /api/v1/messages/send - sends a WhatsApp text to a customer
func SendMessage(c *gin.Context) {
	sender := services.GetMessageSender()
	if sender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MESSAGING_NOT_CONFIGURED",
				"message": "WhatsApp messaging is not configured",
			},
		})
		return
	}

	var req SendMessageRequest
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

	sid, err := sender.SendMessage(c.Request.Context(), strings.TrimSpace(req.To), req.Message)
	if err != nil {
		log.WithError(err).WithField("to", req.To).Error("Failed to send WhatsApp message")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SEND_FAILED",
				"message": "Failed to send WhatsApp message",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"sid": sid,
			"to":  req.To,
		},
	})
}

// ListMessages handles GET /api/v1/messages - recent logged messages, newest first
func ListMessages(c *gin.Context) {
	limit, ok := parseLimit(c, DefaultMessageLimit)
	if !ok {
		return
	}

	messages := []models.Message{}
	if err := config.GetDB().
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		log.WithError(err).Error("Failed to fetch messages")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch messages",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
