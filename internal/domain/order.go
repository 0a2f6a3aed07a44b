package domain

import "time"

// OrderStatus describes the lifecycle of a fuel order.
type OrderStatus string

const (
	// OrderStatusNew is the initial status of every placed order.
	OrderStatusNew OrderStatus = "NEW"
	// OrderStatusInProgress marks an order picked up for processing or delivery.
	OrderStatusInProgress OrderStatus = "IN_PROGRESS"
	// OrderStatusValidated marks an order approved by the back office.
	OrderStatusValidated OrderStatus = "VALIDATED"
	// OrderStatusRejected is a terminal status reachable only from NEW.
	OrderStatusRejected OrderStatus = "REJECTED"
)

// orderTransitions lists the allowed forward moves. VALIDATED to IN_PROGRESS
// is reserved for delivery assignment and is not reachable through a plain
// status update.
var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusNew:        {OrderStatusInProgress: true, OrderStatusRejected: true},
	OrderStatusInProgress: {OrderStatusValidated: true},
	OrderStatusValidated:  {OrderStatusInProgress: true},
	OrderStatusRejected:   {},
}

// ValidOrderTransition reports whether an order may move from one status to another.
func ValidOrderTransition(from, to OrderStatus) bool {
	return orderTransitions[from][to]
}

// KnownOrderStatus reports whether s is one of the defined order statuses.
func KnownOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// OrderLine is one product position of an order. Lines are created together
// with the order header and are immutable afterwards.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	// Qty is the requested number of units.
	Qty int32
	// UnitPrice is the price per unit in millimes, captured at order time.
	UnitPrice int64
	CreatedAt time.Time
}

// Order aggregates the order header and its lines.
type Order struct {
	ID string
	// Reference is the human-readable order code shown to back-office users.
	Reference string
	// UserID is the owner who placed the order.
	UserID    string
	Status    OrderStatus
	Amount    int64
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants checks the basic order invariants and returns every violation.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrOwnerRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	if o.Amount < 0 {
		errs = append(errs, ErrAmountNegative)
	}
	if o.Status != OrderStatusNew {
		errs = append(errs, ErrInitialStatusInvalid)
	}

	// The recorded amount must match the sum of qty * unit price.
	var calc int64
	for _, line := range o.Lines {
		if line.ProductID == "" {
			errs = append(errs, ErrLineProductRequired)
		}
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.UnitPrice < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
		calc += int64(line.Qty) * line.UnitPrice
	}
	if len(o.Lines) > 0 && calc != o.Amount {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
