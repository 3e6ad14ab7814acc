package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kendall-kelly/whatsapp-order-bot/config"
	log "github.com/sirupsen/logrus"
)

const whatsappPrefix = "whatsapp:"

// MessageSender delivers outbound WhatsApp text
type MessageSender interface {
	// SendMessage sends body to the given phone number and returns the provider message id
	SendMessage(ctx context.Context, to, body string) (string, error)
}

// TwilioService sends WhatsApp messages through the Twilio Messages API
type TwilioService struct {
	apiURL     string
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
}

// twilioMessage is the subset of the Messages API response we use
type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

var messageSenderInstance MessageSender

// NewTwilioService creates a Twilio client from the loaded configuration
func NewTwilioService(cfg *config.Config) *TwilioService {
	return &TwilioService{
		apiURL:     strings.TrimRight(cfg.TwilioAPIURL, "/"),
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioWhatsAppNumber,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InitMessageSender installs a Twilio sender when credentials are configured
func InitMessageSender(cfg *config.Config) MessageSender {
	if !cfg.HasMessaging() {
		log.Warn("Twilio credentials not configured, outbound WhatsApp messages are disabled")
		messageSenderInstance = nil
		return nil
	}
	messageSenderInstance = NewTwilioService(cfg)
	return messageSenderInstance
}

// GetMessageSender returns the installed sender, or nil when messaging is disabled
func GetMessageSender() MessageSender {
	return messageSenderInstance
}

// SetMessageSender sets the sender instance (primarily for testing)
func SetMessageSender(sender MessageSender) {
	messageSenderInstance = sender
}

// WhatsAppAddress adds the "whatsapp:" channel prefix if missing
func WhatsAppAddress(number string) string {
	if strings.HasPrefix(number, whatsappPrefix) {
		return number
	}
	return whatsappPrefix + number
}

// StripWhatsAppPrefix removes the "whatsapp:" channel prefix from a sender address
func StripWhatsAppPrefix(address string) string {
	return strings.TrimPrefix(address, whatsappPrefix)
}

// SendMessage posts a message to the Twilio Messages endpoint
func (s *TwilioService) SendMessage(ctx context.Context, to, body string) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.apiURL, url.PathEscape(s.accountSID))

	form := url.Values{}
	form.Set("From", WhatsAppAddress(s.from))
	form.Set("To", WhatsAppAddress(to))
	form.Set("Body", body)

	// Create the HTTP request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	// Execute the request
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call messages endpoint: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close Twilio response body")
		}
	}()

	// Check for non-2xx status codes
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("messages endpoint returned status %d: %s", resp.StatusCode, string(data))
	}

	// Parse the response
	var message twilioMessage
	if err := json.NewDecoder(resp.Body).Decode(&message); err != nil {
		return "", fmt.Errorf("failed to decode messages response: %w", err)
	}

	log.WithFields(log.Fields{"to": WhatsAppAddress(to), "sid": message.SID, "status": message.Status}).Info("WhatsApp message sent")
	return message.SID, nil
}
