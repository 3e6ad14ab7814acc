package models

import (
	"time"
)

// Message is an inbound WhatsApp message together with the reply drafted for it
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Sender    string    `gorm:"not null;index" json:"sender"` // WhatsApp number without the "whatsapp:" prefix
	Body      string    `gorm:"type:text;not null" json:"body"`
	Intent    string    `gorm:"not null" json:"intent"`
	Reply     string    `gorm:"type:text;not null" json:"reply"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
