package model

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	LastName     string    `db:"last_name"`
	FirstName    string    `db:"first_name"`
	MiddleName   *string   `db:"middle_name"`
	RoleID       int64     `db:"role_id"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u *User) FullName() string {
	parts := []string{u.LastName, u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	return strings.Join(parts, " ")
}

// Principal is the authenticated account attached to a request.
type Principal struct {
	ID       int64
	Username string
	FullName string
	RoleName string
	Caps     CapabilitySet
}

func NewPrincipal(user *User, role *Role) *Principal {
	p := &Principal{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName(),
	}
	if role != nil {
		p.RoleName = role.Name
		p.Caps = role.Capabilities
	}
	return p
}

func (p *Principal) Can(capability string) bool {
	return p != nil && p.Caps.Has(capability)
}

// CanModify reports whether the principal may edit or delete the dish.
func (p *Principal) CanModify(dish *Dish) bool {
	if p == nil || dish == nil {
		return false
	}
	return p.Can(CapabilityModifyAnyDish) || dish.UserID == p.ID
}
