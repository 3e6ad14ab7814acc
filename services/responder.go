package services

import (
	"sync"

	"github.com/kendall-kelly/whatsapp-order-bot/bot"
	"github.com/kendall-kelly/whatsapp-order-bot/models"
)

var (
	responderInstance *bot.Engine
	responderMu       sync.RWMutex
)

// InitResponder builds the reply engine for the given menu and installs it
func InitResponder(catalog models.Catalog) *bot.Engine {
	engine := bot.NewEngine(catalog)
	SetResponder(engine)
	return engine
}

// GetResponder returns the installed reply engine, falling back to the
// built-in menu when none was configured
func GetResponder() *bot.Engine {
	responderMu.RLock()
	engine := responderInstance
	responderMu.RUnlock()

	if engine != nil {
		return engine
	}
	return InitResponder(models.DefaultCatalog())
}

// SetResponder sets the reply engine (primarily for testing)
func SetResponder(engine *bot.Engine) {
	responderMu.Lock()
	responderInstance = engine
	responderMu.Unlock()
}
