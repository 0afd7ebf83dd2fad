// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/recipebox/recipebox/internal/db"
	"golang.org/x/crypto/bcrypt"
)

var testDBSeq int64

// SetupDB opens a fresh in-memory SQLite database with all migrations
// applied. Each call gets its own database.
func SetupDB(t *testing.T) *sqlx.DB {
	t.Helper()

	seq := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:recipebox_%d?mode=memory&cache=shared", seq)

	database, err := db.Init("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return database
}

// CreateUser inserts an account with the named role and returns its id.
func CreateUser(t *testing.T, database *sqlx.DB, username, password, roleName string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	var id int64
	err = database.QueryRowx(
		`INSERT INTO users (username, password_hash, last_name, first_name, role_id, created_at)
		 VALUES ($1, $2, $3, $4, (SELECT id FROM roles WHERE name = $5), $6) RETURNING id`,
		username, string(hash), "Testov", username, roleName, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return id
}
