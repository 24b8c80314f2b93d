// Package users holds dashboard accounts and their bcrypt password hashes.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/synergy-credit/scorenorm/internal/auth/middleware"
	"github.com/synergy-credit/scorenorm/internal/rbac"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"` // write-only
}

type Directory struct {
	db        *sql.DB
	adminUser string
	adminHash string
	Cost      int
}

// NewDirectory serves accounts from the users table plus one configured
// admin whose bcrypt hash comes from config.
func NewDirectory(db *sql.DB, adminUser, adminHash string) *Directory {
	return &Directory{db: db, adminUser: adminUser, adminHash: adminHash, Cost: 12}
}

func (d *Directory) Authenticate(ctx context.Context, username, password string) (string, string, error) {
	if username == "" || password == "" {
		return "", "", auth.ErrInvalidCredentials
	}
	if d.adminUser != "" && username == d.adminUser {
		if bcrypt.CompareHashAndPassword([]byte(d.adminHash), []byte(password)) != nil {
			return "", "", auth.ErrInvalidCredentials
		}
		return username, rbac.RoleAdmin, nil
	}

	var id, role, hash string
	err := d.db.QueryRowContext(ctx,
		`SELECT id, role, password_hash FROM users WHERE username=$1`, username,
	).Scan(&id, &role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return "", "", err
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", "", auth.ErrInvalidCredentials
	}
	return id, role, nil
}

// Upsert inserts or updates rows in one transaction. New users need a
// password; existing users keep theirs when none is given.
func (d *Directory) Upsert(ctx context.Context, rows []User) (inserted, updated int, err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, r := range rows {
		r.Username = strings.TrimSpace(r.Username)
		r.Role = strings.ToLower(strings.TrimSpace(r.Role))
		if r.Role == "" {
			r.Role = rbac.RoleViewer
		}
		if r.Username == "" {
			return inserted, updated, errors.New("username required")
		}
		if !rbac.KnownRole(r.Role) {
			return inserted, updated, fmt.Errorf("invalid role: %s", r.Role)
		}
		var phash string
		if r.Password != "" {
			b, e := bcrypt.GenerateFromPassword([]byte(r.Password), d.Cost)
			if e != nil {
				return inserted, updated, e
			}
			phash = string(b)
		}

		var existingID string
		err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id=$1 OR username=$2`, r.ID, r.Username).Scan(&existingID)
		switch {
		case err == nil:
			if phash != "" {
				_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2, password_hash=$3 WHERE id=$4`,
					r.Username, r.Role, phash, existingID)
			} else {
				_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2 WHERE id=$3`,
					r.Username, r.Role, existingID)
			}
			if err != nil {
				return inserted, updated, err
			}
			updated++
		case errors.Is(err, sql.ErrNoRows):
			if phash == "" {
				return inserted, updated, errors.New("password required for new user: " + r.Username)
			}
			if r.ID == "" {
				r.ID = uuid.NewString()
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (id, username, role, password_hash) VALUES ($1,$2,$3,$4)`,
				r.ID, r.Username, r.Role, phash)
			if err != nil {
				return inserted, updated, err
			}
			inserted++
		default:
			return inserted, updated, err
		}
	}
	return
}

// List returns users ordered by username, optionally filtered by role.
func (d *Directory) List(ctx context.Context, role string) ([]User, error) {
	var rows *sql.Rows
	var err error
	if role == "" {
		rows, err = d.db.QueryContext(ctx, `SELECT id,username,role FROM users ORDER BY username`)
	} else {
		rows, err = d.db.QueryContext(ctx, `SELECT id,username,role FROM users WHERE role=$1 ORDER BY username`, role)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
