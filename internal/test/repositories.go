package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/bernardito-luis/eurodelivery/internal/domain/errors"
	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/domain/repository"
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
func (s *UserRepositoryStub) Create(ctx context.Context, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	return s.insert(email, passwordHash, false), nil
}

// CreateSuperuser inserts or promotes user keeping existing password.
func (s *UserRepositoryStub) CreateSuperuser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, exists := s.Users[email]; exists {
		user.IsSuperuser = true
		return user, nil
	}
	return s.insert(email, passwordHash, true), nil
}

func (s *UserRepositoryStub) insert(email, passwordHash string, superuser bool) *model.User {
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Email: email, PasswordHash: passwordHash, IsSuperuser: superuser, CreatedAt: time.Now()}
	s.Next++
	s.Users[email] = user
	s.ByID[user.ID] = user
	return user
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
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

// UpdateProfile renames user and moves it to the new email key.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id int64, profile model.ProfileInput) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if other, taken := s.Users[profile.Email]; taken && other.ID != id {
		return nil, domainErrors.ErrAlreadyExists
	}
	delete(s.Users, user.Email)
	user.Email = profile.Email
	user.FirstName = profile.FirstName
	user.LastName = profile.LastName
	s.Users[user.Email] = user
	return user, nil
}

// UpdatePassword stores the new password hash.
func (s *UserRepositoryStub) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// MemoryStore keeps orders, products, history and outbox rows in memory and
// exposes them through the repository interfaces. Status transitions are applied
// only when the transition hook succeeds.
type MemoryStore struct {
	mu sync.Mutex

	users         *UserRepositoryStub
	orders        map[int64]model.PurchaseOrder
	products      []model.Product
	logs          []model.StatusLog
	notifications []model.Notification

	nextOrder, nextProduct, nextLog, nextNotification int64

	// Err is returned by every repository call when set.
	Err error
	// Now stamps created rows, time.Now when nil.
	Now func() time.Time
}

// NewMemoryStore constructs an empty store sharing users with the provided stub.
func NewMemoryStore(users *UserRepositoryStub) *MemoryStore {
	if users == nil {
		users = NewUserRepositoryStub()
	}
	return &MemoryStore{
		users:  users,
		orders: make(map[int64]model.PurchaseOrder),
	}
}

var _ repository.Factory = (*MemoryStore)(nil)

func (s *MemoryStore) Users() repository.UserRepository                 { return s.users }
func (s *MemoryStore) Orders() repository.OrderRepository               { return memoryOrders{s} }
func (s *MemoryStore) Products() repository.ProductRepository           { return memoryProducts{s} }
func (s *MemoryStore) StatusLogs() repository.StatusLogRepository       { return memoryLogs{s} }
func (s *MemoryStore) Statuses() repository.StatusRepository            { return memoryStatuses{s} }
func (s *MemoryStore) Notifications() repository.NotificationRepository { return memoryOutbox{s} }

// UserStub returns the shared user stub.
func (s *MemoryStore) UserStub() *UserRepositoryStub { return s.users }

// Order returns stored order snapshot.
func (s *MemoryStore) Order(id int64) (model.PurchaseOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// LogsOf returns history rows of the order.
func (s *MemoryStore) LogsOf(orderID int64) []model.StatusLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StatusLog
	for _, l := range s.logs {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out
}

// ProductsOf returns products of the order.
func (s *MemoryStore) ProductsOf(orderID int64) []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productsOf(orderID)
}

// Outbox returns all enqueued notifications.
func (s *MemoryStore) Outbox() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.notifications...)
}

// Counts reports number of stored orders, products and log rows.
func (s *MemoryStore) Counts() (orders, products, logs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders), len(s.products), len(s.logs)
}

func (s *MemoryStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *MemoryStore) productsOf(orderID int64) []model.Product {
	var out []model.Product
	for _, p := range s.products {
		if p.OrderID != nil && *p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out
}

func (s *MemoryStore) appendLog(orderID int64, status model.Status) model.StatusLog {
	s.nextLog++
	entry := model.StatusLog{ID: s.nextLog, OrderID: orderID, Status: status, CreatedAt: s.now()}
	s.logs = append(s.logs, entry)
	return entry
}

func (s *MemoryStore) appendProduct(p model.Product) model.Product {
	s.nextProduct++
	p.ID = s.nextProduct
	s.products = append(s.products, p)
	return p
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(ctx context.Context, order model.PurchaseOrder, products []model.Product) (*model.PurchaseOrder, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	s.nextOrder++
	order.ID = s.nextOrder
	order.CreatedAt = s.now()
	s.orders[order.ID] = order
	for _, p := range products {
		id := order.ID
		p.OrderID = &id
		s.appendProduct(p)
	}
	s.appendLog(order.ID, order.Status)
	return &order, nil
}

func (r memoryOrders) GetByID(ctx context.Context, id int64) (*model.PurchaseOrder, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

func (r memoryOrders) ListByUser(ctx context.Context, userID int64, statuses []model.Status) ([]model.PurchaseOrder, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	allowed := make(map[model.Status]bool, len(statuses))
	for _, st := range statuses {
		allowed[st] = true
	}
	var out []model.PurchaseOrder
	for _, o := range s.orders {
		if o.UserID == userID && allowed[o.Status] {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r memoryOrders) TransitionStatus(ctx context.Context, orderID int64, status model.Status, onChange repository.TransitionFunc) (*model.StatusTransition, error) {
	s := r.s
	s.mu.Lock()
	if s.Err != nil {
		s.mu.Unlock()
		return nil, s.Err
	}
	order, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		return nil, domainErrors.ErrNotFound
	}
	if order.Status == status {
		s.mu.Unlock()
		return nil, nil
	}
	transition := model.StatusTransition{
		OrderID: orderID,
		OwnerID: order.UserID,
		From:    order.Status,
		To:      status,
		Log:     model.StatusLog{OrderID: orderID, Status: status, CreatedAt: s.now()},
	}
	if owner, ok := s.users.ByID[order.UserID]; ok {
		transition.OwnerEmail = owner.Email
	}
	s.mu.Unlock()

	staged := &stagedOutbox{}
	if onChange != nil {
		if err := onChange(ctx, transition, staged); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order.Status = status
	s.orders[orderID] = order
	transition.Log = s.appendLog(orderID, status)
	for _, n := range staged.items {
		s.nextNotification++
		n.ID = s.nextNotification
		n.State = model.NotificationPending
		n.CreatedAt = s.now()
		s.notifications = append(s.notifications, n)
	}
	return &transition, nil
}

func (r memoryOrders) UpdateAdminComment(ctx context.Context, orderID int64, comment string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	o, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.AdminComment = comment
	s.orders[orderID] = o
	return nil
}

type stagedOutbox struct {
	items []model.Notification
}

func (o *stagedOutbox) Enqueue(ctx context.Context, notifications ...model.Notification) error {
	o.items = append(o.items, notifications...)
	return nil
}

type memoryProducts struct{ s *MemoryStore }

func (r memoryProducts) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if product.OrderID != nil {
		if _, ok := s.orders[*product.OrderID]; !ok {
			return nil, domainErrors.ErrNotFound
		}
	}
	p := s.appendProduct(product)
	return &p, nil
}

func (r memoryProducts) ListByOrder(ctx context.Context, orderID int64) ([]model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.productsOf(orderID), nil
}

func (r memoryProducts) ListByOrders(ctx context.Context, orderIDs []int64) (map[int64][]model.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[int64][]model.Product, len(orderIDs))
	for _, id := range orderIDs {
		if items := s.productsOf(id); len(items) > 0 {
			out[id] = items
		}
	}
	return out, nil
}

type memoryLogs struct{ s *MemoryStore }

func (r memoryLogs) ListByOrder(ctx context.Context, orderID int64) ([]model.StatusLog, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return r.s.LogsOf(orderID), nil
}

type memoryStatuses struct{ s *MemoryStore }

func (r memoryStatuses) List(ctx context.Context) ([]model.StatusInfo, error) {
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	return model.Statuses(), nil
}

type memoryOutbox struct{ s *MemoryStore }

func (r memoryOutbox) ClaimBatch(ctx context.Context, relayID string, limit int, staleBefore time.Time) ([]model.Notification, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Notification
	for i := range s.notifications {
		if len(out) >= limit {
			break
		}
		n := &s.notifications[i]
		stale := n.State == model.NotificationSending && n.UpdatedAt.Before(staleBefore)
		if n.State == model.NotificationPending || stale {
			n.State = model.NotificationSending
			n.ClaimedBy = relayID
			n.UpdatedAt = s.now()
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r memoryOutbox) Renew(ctx context.Context, id int64, relayID string) error {
	return r.update(id, relayID, func(n *model.Notification) {
		n.UpdatedAt = r.s.now()
	})
}

func (r memoryOutbox) MarkSent(ctx context.Context, id int64, relayID string) error {
	return r.update(id, relayID, func(n *model.Notification) {
		n.Attempts++
		n.State = model.NotificationSent
		n.LastError = nil
	})
}

func (r memoryOutbox) MarkFailed(ctx context.Context, id int64, relayID, reason string, maxAttempts int) error {
	return r.update(id, relayID, func(n *model.Notification) {
		n.Attempts++
		n.ClaimedBy = ""
		msg := reason
		n.LastError = &msg
		if n.Attempts >= maxAttempts {
			n.State = model.NotificationFailed
		} else {
			n.State = model.NotificationPending
		}
	})
}

func (r memoryOutbox) update(id int64, relayID string, fn func(*model.Notification)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			n := &s.notifications[i]
			if n.State != model.NotificationSending || n.ClaimedBy != relayID {
				return fmt.Errorf("%w: notification %d", domainErrors.ErrClaimLost, id)
			}
			fn(n)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}
