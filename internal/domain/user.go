package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleStaff UserRole = "staff"
	RoleAdmin UserRole = "admin"
)

// IsStaff reports whether the role may operate on bookings it does not own.
func (r UserRole) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(10);default:'user';not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// Principal is the authenticated caller as extracted from the bearer token.
type Principal struct {
	UserID int64
	Role   UserRole
}

// CanAccess reports whether the principal may act on a resource owned by ownerID.
func (p Principal) CanAccess(ownerID int64) bool {
	return p.Role.IsStaff() || p.UserID == ownerID
}
