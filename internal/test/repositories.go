package test

import (
	"context"
	"sync"

	domainErrors "github.com/entregago/entrega/internal/domain/errors"
	"github.com/entregago/entrega/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// TransitionCall stores information about ApplyTransition invocations.
type TransitionCall struct {
	OrderID string
	From    model.OrderStatus
	To      model.OrderStatus
	Entry   model.TrackingEntry
}

// OrderRepositoryStub stores orders in-memory for tests. Its default
// ApplyTransition mimics the store's conditional update: a stale from status
// loses the race and gets ErrInvalidTransition.
type OrderRepositoryStub struct {
	CreateFn    func(context.Context, *model.Order) error
	GetFn       func(context.Context, string) (*model.Order, error)
	ListFn      func(context.Context, int64) ([]model.Order, error)
	SelectFn    func(context.Context, int) ([]model.Order, error)
	ApplyFn     func(context.Context, string, model.OrderStatus, model.OrderStatus, model.TrackingEntry) error
	Orders      map[string]*model.Order
	Transitions []TransitionCall
	Err         error

	mu sync.Mutex
}

// NewOrderRepositoryStub constructs stub repository with initialized storage.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Create stores the order unless the stub has an explicit error.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Orders[order.ID] = cloneOrder(order)
	return nil
}

// GetByID returns a copy of the stored order so callers mutate freely.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return cloneOrder(order), nil
}

// ListByCustomer returns copies of all orders belonging to the customer.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, customerID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, order := range s.Orders {
		if order.CustomerID == customerID {
			out = append(out, *cloneOrder(order))
		}
	}
	return out, nil
}

// SelectAwaitingPayment returns orders still in pending payment state.
func (s *OrderRepositoryStub) SelectAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, limit)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, order := range s.Orders {
		if order.Status == model.OrderStatusPendingPayment && len(out) < limit {
			out = append(out, *cloneOrder(order))
		}
	}
	return out, nil
}

// ApplyTransition records the call and updates stored state when the
// expected from status still matches.
func (s *OrderRepositoryStub) ApplyTransition(ctx context.Context, orderID string, from, to model.OrderStatus, entry model.TrackingEntry) error {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, orderID, from, to, entry)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Transitions = append(s.Transitions, TransitionCall{OrderID: orderID, From: from, To: to, Entry: entry})
	order, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != from {
		return domainErrors.ErrInvalidTransition
	}
	order.Status = to
	order.TrackingHistory = append(order.TrackingHistory, entry)
	return nil
}

func cloneOrder(order *model.Order) *model.Order {
	clone := *order
	clone.Items = append([]model.OrderItem(nil), order.Items...)
	clone.TrackingHistory = append([]model.TrackingEntry(nil), order.TrackingHistory...)
	return &clone
}

// RestaurantRepositoryStub serves a fixed merchant directory.
type RestaurantRepositoryStub struct {
	Restaurants []model.Restaurant
	Err         error
}

// NewRestaurantRepositoryStub constructs stub with a single merchant.
func NewRestaurantRepositoryStub() *RestaurantRepositoryStub {
	return &RestaurantRepositoryStub{
		Restaurants: []model.Restaurant{{ID: 1, Name: "Pizza Palace", Address: "Main St 1", DeliveryFee: 2.5}},
	}
}

// List returns the configured directory.
func (s *RestaurantRepositoryStub) List(ctx context.Context) ([]model.Restaurant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Restaurants, nil
}

// GetByID returns the merchant with the given identifier.
func (s *RestaurantRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for i := range s.Restaurants {
		if s.Restaurants[i].ID == id {
			return &s.Restaurants[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}
