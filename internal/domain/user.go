package domain

import "time"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// User is the stored account record. Password is kept as supplied
// (placeholder auth, no hashing) and is never serialized.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the participant shape embedded in order views.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email}
}

// SellerRef is the reduced seller shape embedded in product views.
func (u *User) SellerRef() SellerSummary {
	return SellerSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}
