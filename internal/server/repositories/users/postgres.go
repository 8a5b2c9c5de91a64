package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/dbx"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const (
	insertUserQuery = `INSERT INTO users (username, email, first_name, last_name, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 `
	insertEmailQuery = `INSERT INTO user_emails (email, username)
		 VALUES ($1, $2)
		 `
	selectUserQuery = `SELECT username, email, first_name, last_name, password_hash FROM users
		 WHERE username = $1
		 `
	updatePasswordQuery = `UPDATE users SET password_hash = $1
		 WHERE username = $2
		 `
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Register inserts the users row and the user_emails row in one
// transaction. When db is already a transaction the caller's transaction
// provides the atomicity.
func (r *PostgresRepository) Register(ctx context.Context, user *models.User) (*models.User, error) {
	write := func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, insertUserQuery,
			user.UserName, user.Email, user.FirstName, user.LastName, user.PasswordHash)
		if err != nil {
			if isUniqueViolation(err) {
				return common.ErrUsernameExists
			}
			return err
		}

		_, err = tx.ExecContext(ctx, insertEmailQuery, user.Email, user.UserName)
		if err != nil {
			if isUniqueViolation(err) {
				return common.ErrEmailExists
			}
			return err
		}
		return nil
	}

	var err error
	if b, ok := r.db.(dbx.TxBeginner); ok {
		err = dbx.WithTx(ctx, b, nil, write)
	} else {
		err = write(ctx, r.db)
	}
	if err != nil {
		if errors.Is(err, common.ErrUsernameExists) || errors.Is(err, common.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, selectUserQuery, userName).
		Scan(&user.UserName, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userName string, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, updatePasswordQuery, passwordHash, userName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
