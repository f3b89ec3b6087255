package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/order/repository"
	"restaurant-admin/internal/workflow"
)

type OrderServiceInterface interface {
	workflow.Ledger

	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (domain.Order, error)
	OrderTimeline(ctx context.Context, id uuid.UUID, limit, offset int) ([]domain.StatusLogEntry, error)
}

var _ workflow.Ledger = (*OrderService)(nil)

const (
	defaultTimelineLimit = 50
	maxTimelineLimit     = 500
	publishTimeout       = 5 * time.Second
)

type OrderService struct {
	repo repository.OrderRepositoryInterface
	pub  Publisher
	lg   *logger.Logger
	now  func() time.Time
}

func NewOrderService(repo repository.OrderRepositoryInterface, pub Publisher, lg *logger.Logger) *OrderService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &OrderService{repo: repo, pub: pub, lg: lg, now: func() time.Time { return time.Now().UTC() }}
}

func (s *OrderService) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	if err := in.Validate(); err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{
		ID:        uuid.New(),
		Table:     domain.Table{ID: in.TableID},
		Status:    domain.StatusActive,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, o, domain.MergeItems(in.Items)); err != nil {
		return domain.Order{}, err
	}
	created, err := s.repo.Get(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	s.lg.Info("order_created", map[string]any{"order_id": created.ID.String(), "table": created.Table.Number, "total": created.Total})
	s.publish(domain.EventCreated, created)
	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *OrderService) LatestOrderForTable(ctx context.Context, tableID uuid.UUID) (domain.Order, error) {
	return s.repo.LatestOpenForTable(ctx, tableID)
}

func (s *OrderService) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.ValidationError{Field: "to", Message: "must not be before from"}
	}
	return s.repo.List(ctx, f)
}

func (s *OrderService) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx, domain.OrderFilter{Statuses: domain.OpenStatuses})
}

// UpdateOrder applies a partial update. A status in the patch goes through
// the same transition rules as TransitionStatus.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error) {
	if err := patch.Validate(); err != nil {
		return domain.Order{}, err
	}
	if patch.Items != nil {
		patch.Items = domain.MergeItems(patch.Items)
	}
	changed, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Status == domain.StatusPaid && !changed {
		// resent to a paid order, nothing was written
		return o, nil
	}
	s.publish(domain.EventUpdated, o)
	if changed {
		s.publish(string(o.Status), o)
	}
	return o, nil
}

func (s *OrderService) TransitionStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (domain.Order, error) {
	if !to.Valid() {
		return domain.Order{}, domain.ValidationError{Field: "status", Message: "unknown order status " + string(to)}
	}
	changed, err := s.repo.Transition(ctx, id, to, s.now())
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if changed {
		s.lg.Info("order_status_changed", map[string]any{"order_id": id.String(), "status": string(to)})
		s.publish(string(to), o)
	}
	return o, nil
}

func (s *OrderService) ServeOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.TransitionStatus(ctx, id, domain.StatusServed)
}

func (s *OrderService) PayOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.TransitionStatus(ctx, id, domain.StatusPaid)
}

// CancelOrder deletes an unpaid order and returns what was deleted.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	o, err := s.repo.Delete(ctx, id, s.now())
	if err != nil {
		return domain.Order{}, err
	}
	s.lg.Info("order_cancelled", map[string]any{"order_id": id.String(), "table": o.Table.Number})
	s.publish(domain.EventCancelled, o)
	return o, nil
}

func (s *OrderService) OrderTimeline(ctx context.Context, id uuid.UUID, limit, offset int) ([]domain.StatusLogEntry, error) {
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	if limit > maxTimelineLimit {
		limit = maxTimelineLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.Timeline(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 && offset == 0 {
		return nil, domain.NotFoundError{Entity: "order", ID: id.String()}
	}
	return entries, nil
}

// publish logs delivery failures instead of returning them.
func (s *OrderService) publish(event string, o domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := s.pub.Publish(ctx, domain.NewOrderEvent(event, o, s.now())); err != nil {
		s.lg.Error("order_event_publish_failed", err, map[string]any{
			"order_id": o.ID.String(),
			"event":    event,
		})
	}
}
