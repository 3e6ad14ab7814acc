package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kendall-kelly/whatsapp-order-bot/models"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no order has the requested id
var ErrOrderNotFound = errors.New("order not found")

// StorageError wraps a failure of the underlying database
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("order store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// OrderStore is the narrow persistence contract the dashboard and reports depend on
type OrderStore interface {
	// Create validates and inserts a new order, returning its assigned id
	Create(order *models.Order) (uint, error)

	// Get returns the order with the given id or ErrOrderNotFound
	Get(id uint) (*models.Order, error)

	// ListAll returns every order, most recent first
	ListAll() ([]models.Order, error)

	// ListByStatus returns orders with the given status, most recent first
	ListByStatus(status models.OrderStatus) ([]models.Order, error)

	// SetStatus overwrites an order's status; any transition is allowed
	SetStatus(id uint, status models.OrderStatus) error

	// ResetWithSeed deletes every order and inserts the seed set.
	// Only for demo and test bootstrapping.
	ResetWithSeed(seed []models.Order) error
}

// writeMu serializes writes across every store sharing the process database
var writeMu sync.Mutex

// GormOrderStore implements OrderStore on top of gorm
type GormOrderStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOrderStore creates an order store backed by db
func NewOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db, now: time.Now}
}

// Create validates and inserts a new order
func (s *GormOrderStore) Create(order *models.Order) (uint, error) {
	if err := order.Validate(); err != nil {
		return 0, err
	}

	// ids are always assigned by the database
	order.ID = 0
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	if err := s.db.Create(order).Error; err != nil {
		return 0, &StorageError{Op: "create", Err: err}
	}
	return order.ID, nil
}

// Get returns the order with the given id
func (s *GormOrderStore) Get(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &order, nil
}

// ListAll returns every order, most recent first
func (s *GormOrderStore) ListAll() ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return orders, nil
}

// ListByStatus returns orders with the given status, most recent first
func (s *GormOrderStore) ListByStatus(status models.OrderStatus) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.db.Where("status = ?", status).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, &StorageError{Op: "list by status", Err: err}
	}
	return orders, nil
}

// SetStatus overwrites the status of an order. Setting the current status again is a no-op.
func (s *GormOrderStore) SetStatus(id uint, status models.OrderStatus) error {
	if !status.IsValid() {
		return &models.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return &StorageError{Op: "set status", Err: err}
		}
		if count == 0 {
			return ErrOrderNotFound
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error; err != nil {
			return &StorageError{Op: "set status", Err: err}
		}
		return nil
	})
}

// ResetWithSeed replaces the whole table with seed. The seed is validated
// before anything is deleted. Deleted ids are never handed out again.
func (s *GormOrderStore) ResetWithSeed(seed []models.Order) error {
	rows := make([]models.Order, len(seed))
	for i, order := range seed {
		if err := order.Validate(); err != nil {
			return fmt.Errorf("seed order %d: %w", i, err)
		}
		order.ID = 0
		if order.Status == "" {
			order.Status = models.StatusPending
		}
		if order.CreatedAt.IsZero() {
			order.CreatedAt = s.now()
		}
		rows[i] = order
	}

	writeMu.Lock()
	defer writeMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Order{}).Error; err != nil {
			return &StorageError{Op: "reset", Err: err}
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return &StorageError{Op: "seed", Err: err}
		}
		return nil
	})
}
