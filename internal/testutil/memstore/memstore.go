// Package memstore implementa los puertos de repositorio en memoria para tests.
// Respeta las mismas reglas que el adaptador PostgreSQL: unicidad, filtros de propietario
// y venta condicional atómica.
package memstore

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu            sync.Mutex
	seq           int64
	users         map[int64]entity.User
	transactions  map[int64]entity.Transaction
	items         map[int64]entity.PriceItem
	notifications map[int64]entity.Notification

	// FailNext, si no es nil, se devuelve en la próxima operación (simula caída de la DB).
	FailNext error
	// FailNotifications, si no es nil, hace fallar toda creación de notificaciones.
	FailNotifications error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:         map[int64]entity.User{},
		transactions:  map[int64]entity.Transaction{},
		items:         map[int64]entity.PriceItem{},
		notifications: map[int64]entity.Notification{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) fail() error {
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return err
	}
	return nil
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Transactions devuelve el repositorio de transacciones.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }

// PriceItems devuelve el repositorio de la lista de precios.
func (s *Store) PriceItems() *PriceItemRepo { return &PriceItemRepo{s: s} }

// Notifications devuelve el repositorio de notificaciones.
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s: s} }

// RunAccounts ejecuta fn y, si falla, restaura usuarios y notificaciones al estado previo.
func (s *Store) RunAccounts(ctx context.Context, fn func(users repository.UserRepository, notifications repository.NotificationRepository) error) error {
	s.mu.Lock()
	usersSnap := make(map[int64]entity.User, len(s.users))
	for k, v := range s.users {
		usersSnap[k] = v
	}
	notesSnap := make(map[int64]entity.Notification, len(s.notifications))
	for k, v := range s.notifications {
		notesSnap[k] = v
	}
	s.mu.Unlock()

	if err := fn(s.Users(), s.Notifications()); err != nil {
		s.mu.Lock()
		s.users = usersSnap
		s.notifications = notesSnap
		s.mu.Unlock()
		return err
	}
	return nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo repositorio de usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
	}
	u.ID = r.s.nextID()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	cur, ok := r.s.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = u.Name
	cur.PasswordHash = u.PasswordHash
	cur.UpdatedAt = u.UpdatedAt
	r.s.users[u.ID] = cur
	return nil
}

func (r *UserRepo) list(match func(entity.User) bool, limit, offset int) []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if match(u) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset)
}

func (r *UserRepo) ListByRole(_ context.Context, role string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	return r.list(func(u entity.User) bool { return u.Role == role }, limit, offset), nil
}

func (r *UserRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	return r.list(func(u entity.User) bool { return u.Status == status }, limit, offset), nil
}

func (r *UserRepo) ListIDs(_ context.Context, role, status string) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	var ids []int64
	for _, u := range r.list(func(u entity.User) bool { return u.Role == role && u.Status == status }, 0, 0) {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (r *UserRepo) ExistsByRole(_ context.Context, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return false, err
	}
	for _, u := range r.s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) Activate(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok || u.Status != entity.StatusPending {
		return domain.ErrNotFound
	}
	u.Status = entity.StatusActive
	u.UpdatedAt = time.Now()
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) DeleteWithStatus(_ context.Context, id int64, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok || u.Status != status {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) DeleteWithRole(_ context.Context, id int64, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok || u.Role != role {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// ─── Transactions ────────────────────────────────────────────────────────────

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo repositorio de transacciones en memoria.
type TransactionRepo struct{ s *Store }

func owns(ownerID *int64, t entity.Transaction) bool {
	return ownerID == nil || *ownerID == t.OwnerID
}

func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	t.ID = r.s.nextID()
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id int64, ownerID *int64) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	t, ok := r.s.transactions[id]
	if !ok || !owns(ownerID, t) {
		return nil, nil
	}
	return &t, nil
}

func (r *TransactionRepo) filter(f repository.TransactionFilter) []*entity.Transaction {
	var out []*entity.Transaction
	for _, t := range r.s.transactions {
		if !owns(f.OwnerID, t) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.From != nil && t.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !t.CreatedAt.Before(*f.To) {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	return page(r.filter(f), f.Limit, f.Offset), nil
}

func (r *TransactionRepo) Count(_ context.Context, f repository.TransactionFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	return len(r.filter(f)), nil
}

func (r *TransactionRepo) UpdateQuantity(_ context.Context, id int64, quantity int, amount decimal.Decimal) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Quantity = quantity
	t.Amount = amount
	t.UpdatedAt = time.Now()
	r.s.transactions[id] = t
	return &t, nil
}

func (r *TransactionRepo) Delete(_ context.Context, id int64, ownerID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	t, ok := r.s.transactions[id]
	if !ok || !owns(ownerID, t) {
		return domain.ErrNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

// ─── Price list ──────────────────────────────────────────────────────────────

var _ repository.PriceItemRepository = (*PriceItemRepo)(nil)

// PriceItemRepo repositorio de la lista de precios en memoria.
type PriceItemRepo struct{ s *Store }

func (r *PriceItemRepo) codeTaken(code string, exceptID int64) bool {
	for _, it := range r.s.items {
		if it.Code == code && it.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *PriceItemRepo) Create(_ context.Context, item *entity.PriceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	if r.codeTaken(item.Code, 0) {
		return domain.ErrDuplicate
	}
	item.ID = r.s.nextID()
	r.s.items[item.ID] = *item
	return nil
}

func (r *PriceItemRepo) GetByID(_ context.Context, id int64) (*entity.PriceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *PriceItemRepo) GetByCode(_ context.Context, code string) (*entity.PriceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	for _, it := range r.s.items {
		if it.Code == code {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}

func (r *PriceItemRepo) filter(f repository.PriceItemFilter) []*entity.PriceItem {
	search := strings.ToLower(f.Search)
	var out []*entity.PriceItem
	for _, it := range r.s.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Code), search) && !strings.Contains(strings.ToLower(it.Name), search) {
			continue
		}
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *PriceItemRepo) List(_ context.Context, f repository.PriceItemFilter) ([]*entity.PriceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	return page(r.filter(f), f.Limit, f.Offset), nil
}

func (r *PriceItemRepo) Count(_ context.Context, f repository.PriceItemFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	return len(r.filter(f)), nil
}

func (r *PriceItemRepo) Update(_ context.Context, item *entity.PriceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name, cur.Category, cur.Brand = item.Name, item.Category, item.Brand
	cur.Price, cur.Stock, cur.UpdatedAt = item.Price, item.Stock, item.UpdatedAt
	r.s.items[item.ID] = cur
	return nil
}

func (r *PriceItemRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

func (r *PriceItemRepo) Sell(_ context.Context, id int64, qty int) (*entity.PriceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Stock < qty {
		return nil, domain.ErrInsufficientStock
	}
	it.Stock -= qty
	it.SoldCount += qty
	it.UpdatedAt = time.Now()
	r.s.items[id] = it
	return &it, nil
}

func (r *PriceItemRepo) Restock(_ context.Context, id int64, qty int) (*entity.PriceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if it.Stock+qty > math.MaxInt32 || it.PurchasedCount+qty > math.MaxInt32 {
		return nil, domain.ErrInvalidInput
	}
	it.Stock += qty
	it.PurchasedCount += qty
	it.UpdatedAt = time.Now()
	r.s.items[id] = it
	return &it, nil
}

func (r *PriceItemRepo) UpsertByCode(_ context.Context, item *entity.PriceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	for id, it := range r.s.items {
		if it.Code == item.Code {
			it.Name, it.Category, it.Brand = item.Name, item.Category, item.Brand
			it.Price, it.Stock, it.UpdatedAt = item.Price, item.Stock, item.UpdatedAt
			r.s.items[id] = it
			item.ID = id
			return nil
		}
	}
	item.ID = r.s.nextID()
	r.s.items[item.ID] = *item
	return nil
}

// ─── Notifications ───────────────────────────────────────────────────────────

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo repositorio de notificaciones en memoria.
type NotificationRepo struct{ s *Store }

func (r *NotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	if r.s.FailNotifications != nil {
		return r.s.FailNotifications
	}
	n.ID = r.s.nextID()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepo) ListByRecipient(_ context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return nil, err
	}
	var out []*entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.ReadAt != nil) {
			continue
		}
		n := n
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func (r *NotificationRepo) Count(_ context.Context, userID int64, unreadOnly bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && (!unreadOnly || n.ReadAt == nil) {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, userID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	if n.ReadAt == nil {
		n.ReadAt = &at
		r.s.notifications[id] = n
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID int64, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return 0, err
	}
	var count int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &at
			r.s.notifications[id] = n
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) Delete(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail(); err != nil {
		return err
	}
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.s.notifications, id)
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
