package response

import (
	"medremind/internal/core/domain/user"
	"time"
)

type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Timezone    string    `json:"timezone"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) FromDomainType(du user.User) {
	u.ID = int64(du.ID)
	u.Name = du.Name
	u.PhoneNumber = string(du.PhoneNumber)
	u.Timezone = du.Timezone
	u.IsActive = du.IsActive
	u.CreatedAt = du.CreatedAt
}

type Caregiver struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Email        *string   `json:"email"`
	Relationship *string   `json:"relationship"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c *Caregiver) FromDomainType(dc user.Caregiver) {
	c.ID = int64(dc.ID)
	c.UserID = int64(dc.UserID)
	c.Name = dc.Name
	c.PhoneNumber = string(dc.PhoneNumber)
	if dc.Email.IsPresent {
		email := string(dc.Email.Value)
		c.Email = &email
	}
	if dc.Relationship.IsPresent {
		relationship := dc.Relationship.Value
		c.Relationship = &relationship
	}
	c.IsActive = dc.IsActive
	c.CreatedAt = dc.CreatedAt
}
