// Package orders implements the order placement workflow, status
// transitions and delivery assignment.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/access"
	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/metrics"
)

// statusUpdateSource maps a requested target status to the single status the
// order must currently hold. VALIDATED to IN_PROGRESS is excluded on
// purpose: that move only happens through delivery assignment.
var statusUpdateSource = map[domain.OrderStatus]domain.OrderStatus{
	domain.OrderStatusInProgress: domain.OrderStatusNew,
	domain.OrderStatusValidated:  domain.OrderStatusInProgress,
	domain.OrderStatusRejected:   domain.OrderStatusNew,
}

// LineInput is one requested order position.
type LineInput struct {
	ProductID string
	Qty       int32
	UnitPrice int64
}

// PlaceInput is the payload for placing an order.
type PlaceInput struct {
	Amount int64
	// Status must be empty or NEW; any other initial status is rejected.
	Status domain.OrderStatus
	Lines  []LineInput
}

// Service coordinates the transactional order workflow and the best-effort
// notification that follows a committed placement.
type Service struct {
	orders   domain.OrderRepository
	notifier domain.OrderNotifier
	logger   *log.Entry
	metrics  *metrics.OrderMetrics
}

// New builds the service. notifier and m may be nil; a nil notifier disables
// announcements and a nil m disables metrics (tests).
func New(orders domain.OrderRepository, notifier domain.OrderNotifier, logger *log.Entry, m *metrics.OrderMetrics) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders")
	}
	return &Service{orders: orders, notifier: notifier, logger: logger, metrics: m}
}

// Place validates the request, runs the atomic placement transaction and, on
// success, announces the new order. Notification failure never affects the
// committed order.
func (s *Service) Place(ctx context.Context, actor access.Actor, in PlaceInput) (domain.Order, error) {
	start := time.Now()

	status := in.Status
	if status == "" {
		status = domain.OrderStatusNew
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:        uuid.NewString(),
		Reference: NewReference(),
		UserID:    actor.ID,
		Status:    status,
		Amount:    in.Amount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, line := range in.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			CreatedAt: now,
		})
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		s.recordRejected("validation")
		return domain.Order{}, errs[0]
	}

	if err := s.orders.Place(ctx, order); err != nil {
		s.recordRejected(string(domain.Classify(err)))
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
		s.metrics.RecordPlaceDuration(time.Since(start))
	}
	s.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
		"user_id":   order.UserID,
		"amount":    order.Amount,
	}).Info("order placed")

	s.announce(ctx, order)
	return order, nil
}

// Get returns the order when the actor owns it or holds a privileged role.
func (s *Service) Get(ctx context.Context, actor access.Actor, id string) (domain.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !access.CanManageOrder(actor, order.UserID) {
		return domain.Order{}, domain.ErrForbidden
	}
	return order, nil
}

// List returns every order. ADMIN only.
func (s *Service) List(ctx context.Context, actor access.Actor, limit int) ([]domain.Order, error) {
	if !actor.Is(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.orders.List(ctx, limit)
}

// ListMine returns the actor's own orders.
func (s *Service) ListMine(ctx context.Context, actor access.Actor, limit int) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, actor.ID, limit)
}

// UpdateStatus moves the order to the requested status. The allowed source
// status and the ownership predicate travel into the repository so the check
// happens inside the same write.
func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, id string, to domain.OrderStatus) error {
	if !domain.KnownOrderStatus(to) {
		return domain.ErrStatusUnknown
	}
	from, ok := statusUpdateSource[to]
	if !ok {
		return domain.ErrInvalidTransition
	}

	err := s.orders.UpdateStatus(ctx, id, from, to, actor.ID, access.OrderPrivileged(actor))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"order_id": id,
		"status":   to,
		"actor_id": actor.ID,
	}).Info("order status updated")
	return nil
}

// AssignDelivery creates the delivery record for a validated order and moves
// it to IN_PROGRESS, both in one transaction.
func (s *Service) AssignDelivery(ctx context.Context, actor access.Actor, orderID, stationID string, scheduledAt time.Time) (domain.Delivery, error) {
	if stationID == "" {
		return domain.Delivery{}, domain.ErrStationNotFound
	}
	if scheduledAt.IsZero() {
		scheduledAt = time.Now().UTC()
	}

	d := domain.Delivery{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		StationID:   stationID,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.orders.AssignDelivery(ctx, d, actor.ID, access.DeliveryPrivileged(actor)); err != nil {
		return domain.Delivery{}, fmt.Errorf("assign delivery: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDeliveryAssigned()
	}
	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"station_id": stationID,
		"actor_id":   actor.ID,
	}).Info("delivery assigned")
	return d, nil
}

// announce publishes the committed order to observers. Errors are logged and
// swallowed: the order is already durable.
func (s *Service) announce(ctx context.Context, order domain.Order) {
	if s.notifier == nil {
		return
	}
	event := domain.OrderPlacedEvent{
		OrderID:   order.ID,
		Reference: order.Reference,
		UserID:    order.UserID,
		Amount:    order.Amount,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
	}
	if err := s.notifier.OrderPlaced(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.RecordNotifyFailure()
		}
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("order notification failed")
	}
}

func (s *Service) recordRejected(reason string) {
	if s.metrics != nil {
		s.metrics.RecordOrderRejected(reason)
	}
}

// NewReference generates a human-readable, collision-resistant order code.
// The uuid-derived suffix keeps concurrent placements from ever colliding,
// unlike a timestamp-based code.
func NewReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "CMD-" + raw[:16]
}
