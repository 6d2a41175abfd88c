package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
)

func TestConflictField(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		field string
		ok    bool
	}{
		{"nil", nil, "", false},
		{"plain", errors.New("boom"), "", false},
		{"mysql key", &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'users.ux_users_email'"}, "email", true},
		{"mysql bare key", &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'email'"}, "email", true},
		{"mysql no key", &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry"}, "value", true},
		{"mysql other", &mysqldrv.MySQLError{Number: 1452, Message: "foreign key"}, "", false},
		{"sqlite", errors.New("UNIQUE constraint failed: users.email"), "email", true},
		{"gorm translated", fmt.Errorf("save: %w", gorm.ErrDuplicatedKey), "value", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field, ok := ConflictField(tc.err)
			if ok != tc.ok || field != tc.field {
				t.Fatalf("ConflictField(%v) = %q, %v; want %q, %v", tc.err, field, ok, tc.field, tc.ok)
			}
		})
	}
}

func TestConflictField_RealInsert(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "twice@example.com", "one")

	err := CreateUser(context.Background(), db, &domain.User{Email: "twice@example.com", Password: "x"})
	field, ok := ConflictField(err)
	if !ok || field != "email" {
		t.Fatalf("ConflictField(%v) = %q, %v; want email, true", err, field, ok)
	}
}
