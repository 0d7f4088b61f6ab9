package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketlane/internal/domain"
)

// MemStore keeps all five collections in process-local maps. Ids are
// per-collection counters starting at 1 and advance only when a row is
// actually inserted. The mutex covers the read-modify-write sequences
// (id allocation, cart dedup, status and stock updates) since Fiber
// serves requests concurrently.
type MemStore struct {
	mu sync.RWMutex

	users      map[int]domain.User
	categories map[int]domain.Category
	products   map[int]domain.Product
	cartItems  map[int]domain.CartItem
	orders     map[int]domain.Order

	nextUserID     int
	nextCategoryID int
	nextProductID  int
	nextCartItemID int
	nextOrderID    int
}

var _ Storage = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		users:          make(map[int]domain.User),
		categories:     make(map[int]domain.Category),
		products:       make(map[int]domain.Product),
		cartItems:      make(map[int]domain.CartItem),
		orders:         make(map[int]domain.Order),
		nextUserID:     1,
		nextCategoryID: 1,
		nextProductID:  1,
		nextCartItemID: 1,
		nextOrderID:    1,
	}
}

// sortedKeys returns map keys ascending. Ids are monotonic, so ascending
// id order is insertion order, which listing and tie-breaks rely on.
func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// ---------- Users ----------

func (s *MemStore) GetUser(id int) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemStore) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) GetUserByUsername(username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemStore) CreateUser(in NewUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role := in.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	u := domain.User{
		ID:        s.nextUserID,
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		Name:      in.Name,
		Role:      role,
		Avatar:    in.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	s.nextUserID++
	s.users[u.ID] = u
	return &u, nil
}

func (s *MemStore) UpdateUser(id int, in UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		u.Password = *in.Password
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.Avatar != nil {
		u.Avatar = in.Avatar
	}
	s.users[id] = u
	return &u, nil
}

// ---------- Categories ----------

func (s *MemStore) GetCategories() ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, id := range sortedKeys(s.categories) {
		out = append(out, s.categories[id])
	}
	return out, nil
}

func (s *MemStore) GetCategory(id int) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemStore) CreateCategory(in NewCategory) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: s.nextCategoryID, Name: in.Name, Slug: in.Slug}
	s.nextCategoryID++
	s.categories[c.ID] = c
	return &c, nil
}

// ---------- Products ----------

func (s *MemStore) GetProducts(f ProductFilter) ([]domain.ProductWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Product
	search := strings.ToLower(f.Search)
	for _, id := range sortedKeys(s.products) {
		p := s.products[id]
		if !p.IsActive {
			continue
		}
		if f.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.SellerID != 0 && p.SellerID != f.SellerID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, p)
	}
	return s.enrichProducts(matched), nil
}

func (s *MemStore) GetProduct(id int) (*domain.ProductWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProduct(id)
}

// getProduct resolves a single product without touching the lock. Unlike
// GetProducts it does not filter on IsActive: an inactive product stays
// fetchable by direct id.
func (s *MemStore) getProduct(id int) (*domain.ProductWithDetails, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	enriched := s.enrichProducts([]domain.Product{p})
	return &enriched[0], nil
}

func (s *MemStore) CreateProduct(in NewProduct) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	// Rating and review count always start at zero, whatever the caller sent.
	p := domain.Product{
		ID:          s.nextProductID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Images:      in.Images,
		CategoryID:  in.CategoryID,
		SellerID:    in.SellerID,
		Stock:       in.Stock,
		Rating:      decimal.Zero,
		ReviewCount: 0,
		IsActive:    active,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextProductID++
	s.products[p.ID] = p
	return &p, nil
}

func (s *MemStore) UpdateProduct(id int, in ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.ReviewCount != nil {
		p.ReviewCount = *in.ReviewCount
	}
	s.products[id] = p
	return &p, nil
}

func (s *MemStore) DeleteProduct(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemStore) GetFeaturedProducts() ([]domain.ProductWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []domain.Product
	for _, id := range sortedKeys(s.products) {
		if p := s.products[id]; p.IsActive {
			active = append(active, p)
		}
	}
	// Stable sort keeps insertion order between equal ratings.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Rating.GreaterThan(active[j].Rating)
	})
	if len(active) > 4 {
		active = active[:4]
	}
	return s.enrichProducts(active), nil
}

func (s *MemStore) GetSellerProducts(sellerID int) ([]domain.ProductWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// No IsActive filter here: sellers see their own inactive listings.
	var matched []domain.Product
	for _, id := range sortedKeys(s.products) {
		if p := s.products[id]; p.SellerID == sellerID {
			matched = append(matched, p)
		}
	}
	return s.enrichProducts(matched), nil
}

// enrichProducts joins category and seller by weak reference. Unresolvable
// references leave the join absent rather than erroring.
func (s *MemStore) enrichProducts(products []domain.Product) []domain.ProductWithDetails {
	out := make([]domain.ProductWithDetails, 0, len(products))
	for _, p := range products {
		v := domain.ProductWithDetails{Product: p}
		if p.CategoryID != nil {
			if c, ok := s.categories[*p.CategoryID]; ok {
				v.Category = &c
			}
		}
		if seller, ok := s.users[p.SellerID]; ok {
			ref := seller.SellerRef()
			v.Seller = &ref
		}
		out = append(out, v)
	}
	return out
}

// ---------- Cart ----------

func (s *MemStore) GetCartItems(userID int) ([]domain.CartItemWithProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.CartItemWithProduct{}
	for _, id := range sortedKeys(s.cartItems) {
		item := s.cartItems[id]
		if item.UserID != userID {
			continue
		}
		product, err := s.getProduct(item.ProductID)
		if err != nil {
			// Product was deleted out from under the cart row; drop the row
			// from the view.
			continue
		}
		out = append(out, domain.CartItemWithProduct{CartItem: item, Product: *product})
	}
	return out, nil
}

func (s *MemStore) AddToCart(in NewCartItem) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	// Dedup on (user, product): bump the existing row, no new id consumed.
	for _, id := range sortedKeys(s.cartItems) {
		item := s.cartItems[id]
		if item.UserID == in.UserID && item.ProductID == in.ProductID {
			item.Quantity += qty
			s.cartItems[id] = item
			return &item, nil
		}
	}

	item := domain.CartItem{
		ID:        s.nextCartItemID,
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	}
	s.nextCartItemID++
	s.cartItems[item.ID] = item
	return &item, nil
}

func (s *MemStore) UpdateCartItem(id, quantity int) (*domain.CartItem, CartUpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cartItems[id]
	if !ok {
		return nil, CartNotFound, nil
	}
	if quantity <= 0 {
		delete(s.cartItems, id)
		return nil, CartRemoved, nil
	}
	item.Quantity = quantity
	s.cartItems[id] = item
	return &item, CartUpdated, nil
}

func (s *MemStore) RemoveFromCart(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cartItems[id]; !ok {
		return ErrNotFound
	}
	delete(s.cartItems, id)
	return nil
}

func (s *MemStore) ClearCart(userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.cartItems {
		if item.UserID == userID {
			delete(s.cartItems, id)
		}
	}
	// Clearing an already-empty cart is still a success.
	return nil
}

// ---------- Orders ----------

func (s *MemStore) GetOrders(userID int, role string) ([]domain.OrderWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.OrderWithDetails{}
	for _, id := range sortedKeys(s.orders) {
		o := s.orders[id]
		if role == domain.RoleSeller {
			if o.SellerID != userID {
				continue
			}
		} else if o.BuyerID != userID {
			continue
		}

		product, err := s.getProduct(o.ProductID)
		if err != nil {
			continue
		}
		buyer, okB := s.users[o.BuyerID]
		seller, okS := s.users[o.SellerID]
		if !okB || !okS {
			// An order missing any participant is dropped from the view.
			continue
		}
		out = append(out, domain.OrderWithDetails{
			Order:   o,
			Product: *product,
			Buyer:   buyer.Summary(),
			Seller:  seller.Summary(),
		})
	}
	return out, nil
}

func (s *MemStore) CreateOrder(in NewOrder) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	o := domain.Order{
		ID:          s.nextOrderID,
		OrderNumber: uuid.NewString(),
		BuyerID:     in.BuyerID,
		SellerID:    in.SellerID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextOrderID++
	s.orders[o.ID] = o
	return &o, nil
}

func (s *MemStore) UpdateOrderStatus(id int, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	s.orders[id] = o
	return &o, nil
}
