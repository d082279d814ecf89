package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role values. Direktur is the only role allowed to change other roles.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleDirektur = "direktur"
)

// ValidRole reports whether s is one of the known role values
func ValidRole(s string) bool {
	return s == RoleUser || s == RoleAdmin || s == RoleDirektur
}

// User represents an operator account. Most accounts come in through
// the OAuth callback upsert; Password is only set for the local
// fallback login.
type User struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	FullName string `gorm:"type:varchar(255)" json:"name"`
	Image    string `gorm:"type:varchar(512)" json:"image"`
	Role     string `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Password string `gorm:"type:varchar(255)" json:"-"` // Hidden from JSON
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
	Role  string    `json:"role"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.FullName,
		Image: u.Image,
		Role:  u.Role,
	}
}
