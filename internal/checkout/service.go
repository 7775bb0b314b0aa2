package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Renanlucass/loja-virtual/internal/domain"
	"github.com/Renanlucass/loja-virtual/internal/orders"
	"github.com/Renanlucass/loja-virtual/internal/pricing"
	"github.com/Renanlucass/loja-virtual/internal/whatsapp"
)

// CartStore is the slice of the cart service checkout needs.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// OrderSubmitter hands finished orders to the commerce API.
type OrderSubmitter interface {
	Create(ctx context.Context, req orders.CreateOrderRequest) (*orders.Order, error)
}

type Result struct {
	Order       *orders.Order
	WhatsAppURL string
}

type Service struct {
	carts    CartStore
	orders   OrderSubmitter
	notifier *whatsapp.Notifier
	log      *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(carts CartStore, submitter OrderSubmitter, notifier *whatsapp.Notifier, log *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		orders:   submitter,
		notifier: notifier,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

// Quote computes subtotal and total for the session's current cart under
// the given payment selection.
func (s *Service) Quote(ctx context.Context, sessionID string, sel pricing.Selection) (subtotal, total decimal.Decimal, err error) {
	if err := sel.Validate(); err != nil {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "pagamento", Reason: err.Error()}
	}

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	subtotal = cart.Subtotal()
	return subtotal, pricing.Total(subtotal, sel), nil
}

// BuildDraft validates the form against the session's cart and freezes
// everything into an immutable draft.
func (s *Service) BuildDraft(ctx context.Context, sessionID string, form Form) (*Draft, error) {
	if err := form.validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	snapshot := cart.Copy()
	subtotal := snapshot.Subtotal()

	return &Draft{
		SessionID: sessionID,
		Lines:     snapshot.Lines,
		Form:      form,
		Address:   form.address(),
		Subtotal:  subtotal,
		Total:     pricing.Total(subtotal, form.Payment),
		FrozenAt:  time.Now(),
	}, nil
}

// Submit sends the draft to the commerce API. The cart is cleared only
// after the API acknowledges the order with an id; on any failure the
// cart is left untouched so the shopper can retry. A session can have at
// most one submission in flight.
func (s *Service) Submit(ctx context.Context, draft *Draft) (*Result, error) {
	s.mu.Lock()
	if _, busy := s.inFlight[draft.SessionID]; busy {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	s.inFlight[draft.SessionID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, draft.SessionID)
		s.mu.Unlock()
	}()

	items := make([]orders.OrderItem, len(draft.Lines))
	for i, line := range draft.Lines {
		items[i] = orders.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.Round(2),
			Quantity:  line.Quantity,
		}
	}

	created, err := s.orders.Create(ctx, orders.CreateOrderRequest{
		CustomerName:   draft.Form.Name,
		CustomerPhone:  draft.Form.Phone,
		Address:        draft.Address,
		DeliveryMethod: draft.Form.DeliveryMethod,
		PaymentMethod:  string(draft.Form.Payment.Method),
		CardType:       string(draft.Form.Payment.CardType),
		Installments:   draft.Form.Payment.Installments,
		Items:          items,
		Subtotal:       draft.Subtotal.Round(2),
		Total:          draft.Total.Round(2),
	})
	if err != nil {
		return nil, err
	}

	// The order exists upstream now; a failed clear must not undo that.
	if err := s.carts.ClearCart(ctx, draft.SessionID); err != nil {
		s.log.WithError(err).WithField("order_id", created.ID).
			Warn("cart clear after order submission failed")
	}

	return &Result{
		Order:       created,
		WhatsAppURL: s.notifier.OrderLink(created.ID, draft.Form.Name),
	}, nil
}
