package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sales-tracker/internal/domain"
	"sales-tracker/internal/repository"
)

const createLoginAttemptsTable = `
CREATE TABLE IF NOT EXISTS login_attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL,
	success INTEGER NOT NULL,
	ip_address TEXT,
	created_at DATETIME NOT NULL
);
`

type LoginAttemptRepository struct {
	db *sql.DB
}

func NewLoginAttemptRepository(db *sql.DB) repository.LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

func (r *LoginAttemptRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createLoginAttemptsTable); err != nil {
		return fmt.Errorf("create login_attempts table: %w", err)
	}
	return nil
}

func (r *LoginAttemptRepository) Create(ctx context.Context, attempt *domain.LoginAttempt) (int64, error) {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}

	var ip any
	if attempt.IPAddress != "" {
		ip = attempt.IPAddress
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO login_attempts (username, success, ip_address, created_at)
VALUES (?, ?, ?, ?)`,
		attempt.Username,
		attempt.Success,
		ip,
		attempt.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert login attempt: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("login attempt last insert id: %w", err)
	}
	attempt.ID = id
	return id, nil
}

func (r *LoginAttemptRepository) ListByUsername(ctx context.Context, username string) ([]domain.LoginAttempt, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, success, ip_address, created_at
FROM login_attempts
WHERE username = ?
ORDER BY id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("query login attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.LoginAttempt
	for rows.Next() {
		var attempt domain.LoginAttempt
		var ip sql.NullString
		if err := rows.Scan(
			&attempt.ID,
			&attempt.Username,
			&attempt.Success,
			&ip,
			&attempt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan login attempt: %w", err)
		}
		attempt.IPAddress = ip.String
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate login attempts: %w", err)
	}
	return attempts, nil
}
