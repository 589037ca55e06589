package user

// User is a registered storefront account. Orders reference users
// optionally; guest checkouts carry no user at all.
type User struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	DNI       string `json:"dni,omitempty"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
