// Package bot drafts automatic replies to inbound WhatsApp messages.
//
// The engine is a fixed keyword and pattern matcher over the menu catalog. It
// never persists anything: it turns text into a reply string and, for order
// messages, a priced Quote.
package bot

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kendall-kelly/whatsapp-order-bot/models"
)

// Intent is the coarse category of an inbound message
type Intent string

const (
	IntentGreeting      Intent = "greeting"
	IntentOrder         Intent = "order"
	IntentStatusInquiry Intent = "status_inquiry"
	IntentUnknown       Intent = "unknown"
)

// Fixed replies
const (
	GreetingReply         = "Halo! Terima kasih telah menghubungi kami. Ada yang bisa saya bantu untuk dipesan?"
	StatusInquiryReply    = "Terima kasih telah menghubungi kami. Untuk mengecek status pesanan, silakan berikan nomor pesanan Anda."
	FallbackReply         = "Terima kasih telah menghubungi kami. Silakan pesan dengan menyebutkan menu yang Anda inginkan."
	QuantityTooLargeReply = "Maaf, jumlah pesanan untuk %s terlalu besar. Silakan kirim ulang pesanan dengan jumlah yang benar."
)

// Keywords are the substrings that select each intent
type Keywords struct {
	Greeting []string
	Order    []string
	Status   []string
}

// DefaultKeywords returns the Indonesian/English keyword lists the bot ships with
func DefaultKeywords() Keywords {
	return Keywords{
		Greeting: []string{"halo", "hai", "hello", "hi", "selamat"},
		Order:    []string{"pesan", "order", "mau", "ingin", "beli"},
		Status:   []string{"status", "kapan"},
	}
}

// rule pairs a predicate with the reply it produces. Rules are tried in order
// and the first match wins.
type rule struct {
	intent Intent
	match  func(text string) bool
	reply  func(text, sender string) string
}

type itemPattern struct {
	item     models.MenuItem
	quantity *regexp.Regexp
}

// Engine classifies messages and drafts replies. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	catalog  models.Catalog
	keywords Keywords
	patterns []itemPattern
	rules    []rule
}

// Option customizes an Engine
type Option func(*Engine)

// WithKeywords replaces the default keyword lists
func WithKeywords(k Keywords) Option {
	return func(e *Engine) {
		e.keywords = Keywords{
			Greeting: lowerAll(k.Greeting),
			Order:    lowerAll(k.Order),
			Status:   lowerAll(k.Status),
		}
	}
}

// NewEngine builds an engine for the given catalog
func NewEngine(catalog models.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  append(models.Catalog(nil), catalog...),
		keywords: DefaultKeywords(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.patterns = make([]itemPattern, 0, len(e.catalog))
	for i := range e.catalog {
		e.catalog[i].Name = strings.ToLower(e.catalog[i].Name)
		item := e.catalog[i]
		e.patterns = append(e.patterns, itemPattern{
			item:     item,
			quantity: regexp.MustCompile(`(\d+)\s*` + regexp.QuoteMeta(item.Name)),
		})
	}

	e.rules = []rule{
		{intent: IntentGreeting, match: containsAny(e.keywords.Greeting), reply: func(string, string) string { return GreetingReply }},
		{intent: IntentOrder, match: containsAny(e.keywords.Order), reply: e.replyToOrder},
		{intent: IntentStatusInquiry, match: containsAny(e.keywords.Status), reply: func(string, string) string { return StatusInquiryReply }},
	}
	return e
}

// Catalog returns a copy of the menu the engine prices against
func (e *Engine) Catalog() models.Catalog {
	return append(models.Catalog(nil), e.catalog...)
}

// Classify returns the intent of a message
func (e *Engine) Classify(text string) Intent {
	intent, _ := e.evaluate(text, "")
	return intent
}

// Respond drafts the reply for a message from sender. The reply is never empty.
func (e *Engine) Respond(text, sender string) string {
	_, reply := e.evaluate(text, sender)
	return reply
}

// Process returns both the intent and the drafted reply
func (e *Engine) Process(text, sender string) (Intent, string) {
	return e.evaluate(text, sender)
}

func (e *Engine) evaluate(text, sender string) (Intent, string) {
	lower := strings.ToLower(text)
	for _, r := range e.rules {
		if r.match(lower) {
			return r.intent, r.reply(lower, sender)
		}
	}
	return IntentUnknown, FallbackReply
}

func (e *Engine) replyToOrder(text, _ string) string {
	quote := e.Extract(text)
	if len(quote.Rejected) > 0 {
		return fmt.Sprintf(QuantityTooLargeReply, strings.Join(quote.Rejected, ", "))
	}
	if quote.Empty() {
		return e.MenuText()
	}
	return quote.Format()
}

// Extract finds every catalog item mentioned in text and prices it. Matching
// is by substring, in catalog order; a number directly before the item name is
// taken as the quantity, otherwise the quantity is 1. An item whose quantity
// cannot be priced in int64 rupiah is left out of Items and named in Rejected.
func (e *Engine) Extract(text string) Quote {
	lower := strings.ToLower(text)

	var quote Quote
	for _, p := range e.patterns {
		if !strings.Contains(lower, p.item.Name) {
			continue
		}

		quantity, ok := int64(1), true
		if m := p.quantity.FindStringSubmatch(lower); m != nil {
			n, err := strconv.ParseInt(m[1], 10, 64)
			quantity, ok = n, err == nil
		}
		if !ok || (p.item.Price > 0 && quantity > (math.MaxInt64-quote.Total)/p.item.Price) {
			quote.Rejected = append(quote.Rejected, p.item.Name)
			continue
		}

		line := LineItem{
			Name:      p.item.Name,
			Quantity:  quantity,
			UnitPrice: p.item.Price,
			LineTotal: quantity * p.item.Price,
		}
		quote.Items = append(quote.Items, line)
		quote.Total += line.LineTotal
	}
	return quote
}

// MenuText is the reply sent when an order names nothing on the menu
func (e *Engine) MenuText() string {
	entries := make([]string, 0, len(e.catalog))
	for _, item := range e.catalog {
		entries = append(entries, item.Name+" ("+FormatRupiah(item.Price)+")")
	}
	return "Maaf, saya tidak mengerti pesanan Anda. Silakan sebutkan menu yang ingin dipesan. Menu kami: " +
		strings.Join(entries, ", ") + "."
}

func containsAny(keywords []string) func(string) bool {
	return func(text string) bool {
		for _, k := range keywords {
			if strings.Contains(text, k) {
				return true
			}
		}
		return false
	}
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
