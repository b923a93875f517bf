package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is an admin login. Customers sign in with their customer key instead.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(100);unique;not null"`
	Password  string    `gorm:"type:varchar(255);not null"`
	Role      Role      `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the identity behind a request.
type Actor struct {
	Role       Role   `json:"role"`
	Subject    string `json:"subject"`
	CustomerID string `json:"customer_id,omitempty"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
