package model

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
)

const (
	// CapabilityModifyAnyDish lets the holder edit and delete dishes owned by other accounts.
	CapabilityModifyAnyDish = "modify_any_dish"
)

const (
	RoleAdministrator = "Администратор"
	RoleUser          = "Пользователь"
)

type Role struct {
	ID           int64         `db:"id"`
	Name         string        `db:"name"`
	Description  string        `db:"description"`
	Capabilities CapabilitySet `db:"capabilities"`
}

// IsDefault reports whether the role is preselected on registration.
func (r *Role) IsDefault() bool {
	return r.Name == RoleUser
}

// CapabilitySet is stored as a comma separated list in the roles table.
type CapabilitySet []string

func (c CapabilitySet) Has(capability string) bool {
	for _, v := range c {
		if v == capability {
			return true
		}
	}
	return false
}

func (c CapabilitySet) Value() (driver.Value, error) {
	values := append([]string(nil), c...)
	sort.Strings(values)
	return strings.Join(values, ","), nil
}

func (c *CapabilitySet) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("capability set: unsupported type %T", src)
	}

	set := CapabilitySet{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			set = append(set, part)
		}
	}
	*c = set
	return nil
}
