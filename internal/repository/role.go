package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/model"
)

var (
	ErrRoleNotFound = errors.New("role not found")
)

type RoleRepository interface {
	ByID(id int64) (*model.Role, error)
	ByName(name string) (*model.Role, error)
	Roles() ([]*model.Role, error)
}

type roleRepository struct {
	db *sqlx.DB
}

func NewRoleRepository(db *sqlx.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) ByID(id int64) (*model.Role, error) {
	role := &model.Role{}
	err := r.db.Get(role, `SELECT * FROM roles WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) ByName(name string) (*model.Role, error) {
	role := &model.Role{}
	err := r.db.Get(role, `SELECT * FROM roles WHERE name = $1`, name)
	if err == sql.ErrNoRows {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) Roles() ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.Select(&roles, `SELECT * FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return roles, nil
}
