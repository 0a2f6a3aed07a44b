package domain

import (
	"context"
	"time"
)

// OrderRepository owns durable order state. Place and AssignDelivery are
// transactional: either every write in the operation is visible or none.
type OrderRepository interface {
	// Place atomically inserts the order header, its lines, and decrements
	// each referenced product's stock. Insufficient stock or a missing
	// product aborts the whole operation.
	Place(ctx context.Context, order Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, limit int) ([]Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Order, error)
	// UpdateStatus moves the order from one status to another. Ownership is
	// re-validated as part of the update itself: the write applies only when
	// the order belongs to ownerID or privileged is set.
	UpdateStatus(ctx context.Context, id string, from, to OrderStatus, ownerID string, privileged bool) error
	// AssignDelivery inserts the delivery record and moves the order from
	// VALIDATED to IN_PROGRESS in one transaction.
	AssignDelivery(ctx context.Context, d Delivery, ownerID string, privileged bool) error
}

// ProductRepository exposes the product catalog with stock levels.
type ProductRepository interface {
	Create(ctx context.Context, p Product) error
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}

// ComplaintRepository owns durable complaint state.
type ComplaintRepository interface {
	Create(ctx context.Context, c Complaint) error
	Get(ctx context.Context, id string) (Complaint, error)
	List(ctx context.Context) ([]Complaint, error)
	ListByManager(ctx context.Context, managerID string) ([]Complaint, error)
	ListByCommercial(ctx context.Context, commercialID string) ([]Complaint, error)
	// UpdateStatus re-validates assignment inside the update: the write
	// applies only when actorID is the assigned manager or commercial, or
	// privileged is set.
	UpdateStatus(ctx context.Context, id string, from, to ComplaintStatus, actorID string, privileged bool) error
}

// StationRepository exposes the station registry.
type StationRepository interface {
	Create(ctx context.Context, s Station) error
	Get(ctx context.Context, id string) (Station, error)
	List(ctx context.Context) ([]Station, error)
}

// UserRepository exposes back-office accounts.
type UserRepository interface {
	Create(ctx context.Context, u User) error
	Get(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)
}

// OrderPlacedEvent announces a committed order to observers.
type OrderPlacedEvent struct {
	OrderID   string      `json:"order_id"`
	Reference string      `json:"reference"`
	UserID    string      `json:"user_id"`
	Amount    int64       `json:"amount"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderNotifier is the best-effort broadcast channel for new orders. There is
// no delivery guarantee, no persistence and no replay; a publish failure must
// never affect the already committed order.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, event OrderPlacedEvent) error
}
