package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/mmt/internal/models"
)

// UserRepository persists local user identities and their reference metadata.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername looks up a local user by login name.
// Returns (nil, nil) when no user matches.
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	return r.findBy("username", username)
}

// FindByEmail looks up a local user by email address.
// Returns (nil, nil) when no user matches.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	return r.findBy("email", email)
}

func (r *UserRepository) findBy(column, value string) (*models.User, error) {
	query := `SELECT id, username, email, name FROM users WHERE ` + column + ` = ?`

	var user models.User
	err := r.db.QueryRow(query, value).Scan(&user.ID, &user.Username, &user.Email, &user.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by %s: %w", column, err)
	}

	return &user, nil
}

// Create inserts a remote user record as a new local user.
func (r *UserRepository) Create(remote models.RemoteUser) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, name, first_name, last_name, url, description, nickname, slug, registered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		remote.Username, remote.Email, remote.Name, remote.FirstName, remote.LastName,
		remote.URL, remote.Description, remote.Nickname, remote.Slug, remote.RegisteredDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted user id: %w", err)
	}

	return &models.User{ID: id, Username: remote.Username, Email: remote.Email, Name: remote.Name}, nil
}

// SetReference annotates a local user with a link to the remote identity it
// stands in for: the remote id plus a serialized copy of the remote record.
// Re-running a classification overwrites the previous link.
func (r *UserRepository) SetReference(userID int64, remote models.RemoteUser) error {
	raw, err := json.Marshal(remote)
	if err != nil {
		return fmt.Errorf("failed to serialize remote user: %w", err)
	}

	if err := upsertMeta(r.db, "user_meta", "user_id", userID, "mmt_reference_user_id", fmt.Sprintf("%d", remote.ID)); err != nil {
		return fmt.Errorf("failed to write user reference id: %w", err)
	}
	if err := upsertMeta(r.db, "user_meta", "user_id", userID, "mmt_reference_user_object", string(raw)); err != nil {
		return fmt.Errorf("failed to write user reference object: %w", err)
	}

	return nil
}

// Count returns the number of local users.
func (r *UserRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountReferenced returns the number of local users carrying a remote
// reference link.
func (r *UserRepository) CountReferenced() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM user_meta WHERE meta_key = 'mmt_reference_user_id'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referenced users: %w", err)
	}
	return count, nil
}

// ListPage returns one page of local users rendered in wire form, ordered by id.
func (r *UserRepository) ListPage(page, perPage int) ([]models.RemoteUser, error) {
	if page < 1 {
		page = 1
	}

	query := `
		SELECT id, username, email, name, first_name, last_name, url, description, nickname, slug, registered_at
		FROM users
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.Query(query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.RemoteUser
	for rows.Next() {
		var u models.RemoteUser
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.FirstName, &u.LastName,
			&u.URL, &u.Description, &u.Nickname, &u.Slug, &u.RegisteredDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}
