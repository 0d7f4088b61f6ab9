package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"marketlane/internal/domain"
)

// SQLStore backs the same contract with sqlite. Weak references are
// deliberately not foreign keys: rows pointing at deleted entities stay
// put and fall out of the derived views at read time, exactly like the
// in-memory backend. AUTOINCREMENT keeps ids monotonic and unreused.
type SQLStore struct {
	db *sqlx.DB
}

var _ Storage = (*SQLStore)(nil)

func OpenSQL(dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite permits a single writer; one pooled connection serializes
	// access and keeps a :memory: database from splitting per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'buyer',
  avatar TEXT,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_email    ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  slug TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price TEXT NOT NULL,
  image TEXT NOT NULL,
  images_json TEXT,
  category_id INTEGER,
  seller_id INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  rating TEXT NOT NULL DEFAULT '0',
  review_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_seller   ON products(seller_id);

CREATE TABLE IF NOT EXISTS cart_items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  created_at TEXT NOT NULL,
  UNIQUE(user_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id);

CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_number TEXT NOT NULL,
  buyer_id INTEGER NOT NULL,
  seller_id INTEGER NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  total_amount TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer  ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
`
	_, err := db.Exec(schema)
	return err
}

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ---------- row types ----------

type userRow struct {
	ID        int            `db:"id"`
	Username  string         `db:"username"`
	Email     string         `db:"email"`
	Password  string         `db:"password"`
	Name      string         `db:"name"`
	Role      string         `db:"role"`
	Avatar    sql.NullString `db:"avatar"`
	CreatedAt string         `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	u := domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		Name:      r.Name,
		Role:      r.Role,
		CreatedAt: parseStamp(r.CreatedAt),
	}
	if r.Avatar.Valid {
		u.Avatar = &r.Avatar.String
	}
	return u
}

type productRow struct {
	ID          int            `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Price       string         `db:"price"`
	Image       string         `db:"image"`
	ImagesJSON  sql.NullString `db:"images_json"`
	CategoryID  sql.NullInt64  `db:"category_id"`
	SellerID    int            `db:"seller_id"`
	Stock       int            `db:"stock"`
	Rating      string         `db:"rating"`
	ReviewCount int            `db:"review_count"`
	IsActive    bool           `db:"is_active"`
	CreatedAt   string         `db:"created_at"`
}

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		SellerID:    r.SellerID,
		Stock:       r.Stock,
		ReviewCount: r.ReviewCount,
		IsActive:    r.IsActive,
		CreatedAt:   parseStamp(r.CreatedAt),
	}
	p.Price, _ = decimal.NewFromString(r.Price)
	p.Rating, _ = decimal.NewFromString(r.Rating)
	if r.CategoryID.Valid {
		id := int(r.CategoryID.Int64)
		p.CategoryID = &id
	}
	if r.ImagesJSON.Valid && r.ImagesJSON.String != "" {
		_ = json.Unmarshal([]byte(r.ImagesJSON.String), &p.Images)
	}
	return p
}

func imagesJSON(images []string) any {
	if images == nil {
		return nil
	}
	b, _ := json.Marshal(images)
	return string(b)
}

type cartItemRow struct {
	ID        int    `db:"id"`
	UserID    int    `db:"user_id"`
	ProductID int    `db:"product_id"`
	Quantity  int    `db:"quantity"`
	CreatedAt string `db:"created_at"`
}

func (r cartItemRow) toDomain() domain.CartItem {
	return domain.CartItem{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: parseStamp(r.CreatedAt),
	}
}

type orderRow struct {
	ID          int    `db:"id"`
	OrderNumber string `db:"order_number"`
	BuyerID     int    `db:"buyer_id"`
	SellerID    int    `db:"seller_id"`
	ProductID   int    `db:"product_id"`
	Quantity    int    `db:"quantity"`
	TotalAmount string `db:"total_amount"`
	Status      string `db:"status"`
	CreatedAt   string `db:"created_at"`
}

func (r orderRow) toDomain() domain.Order {
	o := domain.Order{
		ID:          r.ID,
		OrderNumber: r.OrderNumber,
		BuyerID:     r.BuyerID,
		SellerID:    r.SellerID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Status:      r.Status,
		CreatedAt:   parseStamp(r.CreatedAt),
	}
	o.TotalAmount, _ = decimal.NewFromString(r.TotalAmount)
	return o
}

// colSet accumulates a column-scoped partial UPDATE. Only supplied
// columns reach the statement; untouched columns are never rewritten
// from a stale read.
type colSet struct {
	sets []string
	args []any
}

func (u *colSet) add(col string, v any) {
	u.sets = append(u.sets, col+" = ?")
	u.args = append(u.args, v)
}

func (u *colSet) apply(db *sqlx.DB, table string, id int) error {
	if len(u.sets) == 0 {
		return nil
	}
	args := append(u.args, id)
	res, err := db.Exec(`UPDATE `+table+` SET `+strings.Join(u.sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------- Users ----------

const userCols = `id, username, email, password, name, role, avatar, created_at`

func (s *SQLStore) getUserWhere(where string, args ...any) (*domain.User, error) {
	var r userRow
	err := s.db.Get(&r, `SELECT `+userCols+` FROM users WHERE `+where, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u := r.toDomain()
	return &u, nil
}

func (s *SQLStore) GetUser(id int) (*domain.User, error) {
	return s.getUserWhere(`id = ?`, id)
}

func (s *SQLStore) GetUserByEmail(email string) (*domain.User, error) {
	return s.getUserWhere(`email = ? ORDER BY id LIMIT 1`, email)
}

func (s *SQLStore) GetUserByUsername(username string) (*domain.User, error) {
	return s.getUserWhere(`username = ? ORDER BY id LIMIT 1`, username)
}

func (s *SQLStore) CreateUser(in NewUser) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	var avatar any
	if in.Avatar != nil {
		avatar = *in.Avatar
	}
	res, err := s.db.Exec(`
		INSERT INTO users(username, email, password, name, role, avatar, created_at)
		VALUES(?,?,?,?,?,?,?)
	`, in.Username, in.Email, in.Password, in.Name, role, avatar, nowStamp())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUser(int(id))
}

// UpdateUser writes only the supplied columns, so concurrent partial
// updates cannot clobber each other's fields.
func (s *SQLStore) UpdateUser(id int, in UserUpdate) (*domain.User, error) {
	var up colSet
	if in.Username != nil {
		up.add("username", *in.Username)
	}
	if in.Email != nil {
		up.add("email", *in.Email)
	}
	if in.Password != nil {
		up.add("password", *in.Password)
	}
	if in.Name != nil {
		up.add("name", *in.Name)
	}
	if in.Role != nil {
		up.add("role", *in.Role)
	}
	if in.Avatar != nil {
		up.add("avatar", *in.Avatar)
	}
	if err := up.apply(s.db, "users", id); err != nil {
		return nil, err
	}
	return s.GetUser(id)
}

// ---------- Categories ----------

func (s *SQLStore) GetCategories() ([]domain.Category, error) {
	out := []domain.Category{}
	err := s.db.Select(&out, `SELECT id, name, slug FROM categories ORDER BY id`)
	return out, err
}

func (s *SQLStore) GetCategory(id int) (*domain.Category, error) {
	var c domain.Category
	err := s.db.Get(&c, `SELECT id, name, slug FROM categories WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) CreateCategory(in NewCategory) (*domain.Category, error) {
	res, err := s.db.Exec(`INSERT INTO categories(name, slug) VALUES(?,?)`, in.Name, in.Slug)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCategory(int(id))
}

// ---------- Products ----------

const productCols = `id, name, description, price, image, images_json, category_id,
	seller_id, stock, rating, review_count, is_active, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *SQLStore) GetProducts(f ProductFilter) ([]domain.ProductWithDetails, error) {
	where := `is_active = 1`
	args := []any{}
	if f.CategoryID != 0 {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.SellerID != 0 {
		where += ` AND seller_id = ?`
		args = append(args, f.SellerID)
	}
	if f.Search != "" {
		// Escape LIKE metacharacters so the term matches literally.
		where += ` AND (LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`
		pat := "%" + likeEscaper.Replace(strings.ToLower(f.Search)) + "%"
		args = append(args, pat, pat)
	}

	var rows []productRow
	err := s.db.Select(&rows, `SELECT `+productCols+` FROM products WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	return s.enrichRows(rows)
}

func (s *SQLStore) GetProduct(id int) (*domain.ProductWithDetails, error) {
	// No is_active filter: inactive products stay fetchable by direct id.
	var r productRow
	err := s.db.Get(&r, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrichRows([]productRow{r})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func (s *SQLStore) CreateProduct(in NewProduct) (*domain.Product, error) {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	var categoryID any
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}
	// Rating and review count always start at zero, whatever the caller sent.
	res, err := s.db.Exec(`
		INSERT INTO products(name, description, price, image, images_json, category_id,
			seller_id, stock, rating, review_count, is_active, created_at)
		VALUES(?,?,?,?,?,?,?,?,'0',0,?,?)
	`, in.Name, in.Description, in.Price.String(), in.Image, imagesJSON(in.Images),
		categoryID, in.SellerID, in.Stock, active, nowStamp())
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	v, err := s.GetProduct(int(id))
	if err != nil {
		return nil, err
	}
	return &v.Product, nil
}

// UpdateProduct writes only the supplied columns, so concurrent partial
// updates cannot clobber each other's fields.
func (s *SQLStore) UpdateProduct(id int, in ProductUpdate) (*domain.Product, error) {
	var up colSet
	if in.Name != nil {
		up.add("name", *in.Name)
	}
	if in.Description != nil {
		up.add("description", *in.Description)
	}
	if in.Price != nil {
		up.add("price", in.Price.String())
	}
	if in.Image != nil {
		up.add("image", *in.Image)
	}
	if in.Images != nil {
		up.add("images_json", imagesJSON(in.Images))
	}
	if in.CategoryID != nil {
		up.add("category_id", *in.CategoryID)
	}
	if in.Stock != nil {
		up.add("stock", *in.Stock)
	}
	if in.IsActive != nil {
		up.add("is_active", *in.IsActive)
	}
	if in.Rating != nil {
		up.add("rating", in.Rating.String())
	}
	if in.ReviewCount != nil {
		up.add("review_count", *in.ReviewCount)
	}
	if err := up.apply(s.db, "products", id); err != nil {
		return nil, err
	}
	v, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	return &v.Product, nil
}

func (s *SQLStore) DeleteProduct(id int) error {
	res, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) GetFeaturedProducts() ([]domain.ProductWithDetails, error) {
	// Secondary sort by id matches the stable insertion-order tie-break of
	// the in-memory backend.
	var rows []productRow
	err := s.db.Select(&rows, `
		SELECT `+productCols+` FROM products
		WHERE is_active = 1
		ORDER BY CAST(rating AS REAL) DESC, id
		LIMIT 4
	`)
	if err != nil {
		return nil, err
	}
	return s.enrichRows(rows)
}

func (s *SQLStore) GetSellerProducts(sellerID int) ([]domain.ProductWithDetails, error) {
	// No is_active filter: sellers see their own inactive listings.
	var rows []productRow
	err := s.db.Select(&rows, `SELECT `+productCols+` FROM products WHERE seller_id = ? ORDER BY id`, sellerID)
	if err != nil {
		return nil, err
	}
	return s.enrichRows(rows)
}

func (s *SQLStore) enrichRows(rows []productRow) ([]domain.ProductWithDetails, error) {
	out := make([]domain.ProductWithDetails, 0, len(rows))
	for _, r := range rows {
		p := r.toDomain()
		v := domain.ProductWithDetails{Product: p}
		if p.CategoryID != nil {
			if c, err := s.GetCategory(*p.CategoryID); err == nil {
				v.Category = c
			} else if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
		if seller, err := s.GetUser(p.SellerID); err == nil {
			ref := seller.SellerRef()
			v.Seller = &ref
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ---------- Cart ----------

func (s *SQLStore) GetCartItems(userID int) ([]domain.CartItemWithProduct, error) {
	var rows []cartItemRow
	err := s.db.Select(&rows, `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart_items WHERE user_id = ? ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	out := []domain.CartItemWithProduct{}
	for _, r := range rows {
		product, err := s.GetProduct(r.ProductID)
		if errors.Is(err, ErrNotFound) {
			// Product deleted out from under the cart row; drop the row.
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CartItemWithProduct{CartItem: r.toDomain(), Product: *product})
	}
	return out, nil
}

func (s *SQLStore) AddToCart(in NewCartItem) (*domain.CartItem, error) {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	// Dedup on (user, product): the unique index plus a single upsert make
	// the merge atomic, so a repeat add bumps the existing row and no new
	// id is consumed.
	_, err := s.db.Exec(`
		INSERT INTO cart_items(user_id, product_id, quantity, created_at)
		VALUES(?,?,?,?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET quantity = quantity + excluded.quantity
	`, in.UserID, in.ProductID, qty, nowStamp())
	if err != nil {
		return nil, err
	}

	var r cartItemRow
	err = s.db.Get(&r, `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart_items WHERE user_id = ? AND product_id = ?
	`, in.UserID, in.ProductID)
	if err != nil {
		return nil, err
	}
	item := r.toDomain()
	return &item, nil
}

func (s *SQLStore) UpdateCartItem(id, quantity int) (*domain.CartItem, CartUpdateResult, error) {
	var r cartItemRow
	err := s.db.Get(&r, `SELECT id, user_id, product_id, quantity, created_at FROM cart_items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, CartNotFound, nil
	}
	if err != nil {
		return nil, CartNotFound, err
	}
	if quantity <= 0 {
		if _, err := s.db.Exec(`DELETE FROM cart_items WHERE id = ?`, id); err != nil {
			return nil, CartNotFound, err
		}
		return nil, CartRemoved, nil
	}
	if _, err := s.db.Exec(`UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, id); err != nil {
		return nil, CartNotFound, err
	}
	r.Quantity = quantity
	item := r.toDomain()
	return &item, CartUpdated, nil
}

func (s *SQLStore) RemoveFromCart(id int) error {
	res, err := s.db.Exec(`DELETE FROM cart_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ClearCart(userID int) error {
	// Clearing an already-empty cart is still a success.
	_, err := s.db.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

// ---------- Orders ----------

const orderCols = `id, order_number, buyer_id, seller_id, product_id, quantity, total_amount, status, created_at`

func (s *SQLStore) GetOrders(userID int, role string) ([]domain.OrderWithDetails, error) {
	col := `buyer_id`
	if role == domain.RoleSeller {
		col = `seller_id`
	}
	var rows []orderRow
	err := s.db.Select(&rows, `SELECT `+orderCols+` FROM orders WHERE `+col+` = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}

	out := []domain.OrderWithDetails{}
	for _, r := range rows {
		product, err := s.GetProduct(r.ProductID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		buyer, err := s.GetUser(r.BuyerID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		seller, err := s.GetUser(r.SellerID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, domain.OrderWithDetails{
			Order:   r.toDomain(),
			Product: *product,
			Buyer:   buyer.Summary(),
			Seller:  seller.Summary(),
		})
	}
	return out, nil
}

func (s *SQLStore) CreateOrder(in NewOrder) (*domain.Order, error) {
	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	number := uuid.NewString()
	stamp := nowStamp()
	res, err := s.db.Exec(`
		INSERT INTO orders(order_number, buyer_id, seller_id, product_id, quantity, total_amount, status, created_at)
		VALUES(?,?,?,?,?,?,?,?)
	`, number, in.BuyerID, in.SellerID, in.ProductID, in.Quantity, in.TotalAmount.String(), status, stamp)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Order{
		ID:          int(id),
		OrderNumber: number,
		BuyerID:     in.BuyerID,
		SellerID:    in.SellerID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		TotalAmount: in.TotalAmount,
		Status:      status,
		CreatedAt:   parseStamp(stamp),
	}, nil
}

func (s *SQLStore) UpdateOrderStatus(id int, status string) (*domain.Order, error) {
	var r orderRow
	err := s.db.Get(&r, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id); err != nil {
		return nil, err
	}
	r.Status = status
	o := r.toDomain()
	return &o, nil
}
