package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avjabalpur/cian-erp-sub002/internal/domain"
	"github.com/avjabalpur/cian-erp-sub002/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const uniqueViolation = "23505"

type UserRepositoryImpl struct {
	db *sqlx.DB
}

func CreateUserRepository(db *sqlx.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) getUser(ctx context.Context, component string, query string, arg interface{}) (res domain.User, err error) {
	row := r.db.QueryRowxContext(ctx, query, arg)
	err = row.StructScan(&res)
	if err != nil {
		if err == sql.ErrNoRows {
			return res, nil
		}
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return res, errs.ErrInternalServer
	}

	return
}

// GetUserByUsername matches the username exactly as given. Any case or whitespace
// folding is left to the column collation.
func (r *UserRepositoryImpl) GetUserByUsername(ctx context.Context, username string) (res domain.User, err error) {
	return r.getUser(ctx, "GetUserByUsername", "SELECT * FROM users WHERE username = $1 AND deleted_at IS NULL", username)
}

func (r *UserRepositoryImpl) GetUserByEmail(ctx context.Context, email string) (res domain.User, err error) {
	return r.getUser(ctx, "GetUserByEmail", "SELECT * FROM users WHERE email = $1 AND deleted_at IS NULL", email)
}

func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, id int64) (res domain.User, err error) {
	return r.getUser(ctx, "GetUserByID", "SELECT * FROM users WHERE id = $1 AND deleted_at IS NULL", id)
}

func (r *UserRepositoryImpl) AddUser(ctx context.Context, data domain.User) (id int64, err error) {
	nstmt, err := r.db.PrepareNamedContext(ctx, "INSERT INTO users(external_id, username, email, first_name, last_name, phone_number, designation, hashed_password, is_active, is_email_verified, is_phone_verified, created_at, updated_at) VALUES (:external_id, :username, :email, :first_name, :last_name, :phone_number, :designation, :hashed_password, :is_active, :is_email_verified, :is_phone_verified, :created_at, :updated_at) returning id")
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &id, data)
	if err != nil {
		// a concurrent registration can pass the existence checks and still lose on the unique index
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			log.Ctx(ctx).Warn().Err(err).Str("component", "AddUser").Str("constraint", pqErr.Constraint).Msg("")
			return 0, errs.ErrUserAlreadyExists
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "AddUser").Msg("")
		return 0, errs.ErrInternalServer
	}

	return id, nil
}

func (r *UserRepositoryImpl) UpdateLoginInfo(ctx context.Context, data domain.User) (err error) {
	_, err = r.db.NamedExecContext(ctx, "UPDATE users SET last_login=:last_login, failed_login_attempts=:failed_login_attempts, locked_until=:locked_until, refresh_token=:refresh_token, refresh_token_expiry_time=:refresh_token_expiry_time, updated_at=:updated_at WHERE id=:id AND deleted_at IS NULL", data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateLoginInfo").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

// RecordFailedLogin increments the counter in place and sets locked_until once
// the counter reaches maxAttempts. A maxAttempts of zero never locks.
func (r *UserRepositoryImpl) RecordFailedLogin(ctx context.Context, id int64, maxAttempts int, lockedUntil int64, timestamp int64) (err error) {
	_, err = r.db.ExecContext(ctx, `UPDATE users SET failed_login_attempts = failed_login_attempts + 1,
		locked_until = CASE WHEN $2 > 0 AND failed_login_attempts + 1 >= $2 THEN $3 ELSE locked_until END,
		updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL`, id, maxAttempts, lockedUntil, timestamp)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "RecordFailedLogin").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

// RotateRefreshToken only swaps the token when the stored value still equals
// previous, so two concurrent refreshes cannot both succeed.
func (r *UserRepositoryImpl) RotateRefreshToken(ctx context.Context, id int64, previous string, next string, expiry int64, timestamp int64) (rotated bool, err error) {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET refresh_token = $3, refresh_token_expiry_time = $4, updated_at = $5 WHERE id = $1 AND refresh_token = $2 AND deleted_at IS NULL", id, previous, next, expiry, timestamp)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "RotateRefreshToken").Msg("")
		return false, errs.ErrInternalServer
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "RotateRefreshToken").Msg("")
		return false, errs.ErrInternalServer
	}

	return affected == 1, nil
}

func (r *UserRepositoryImpl) ClearRefreshToken(ctx context.Context, id int64, timestamp int64) (err error) {
	_, err = r.db.ExecContext(ctx, "UPDATE users SET refresh_token = NULL, refresh_token_expiry_time = NULL, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL", id, timestamp)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ClearRefreshToken").Msg("")
		return errs.ErrInternalServer
	}

	return nil
}

func (r *UserRepositoryImpl) ClearExpiredRefreshTokens(ctx context.Context, now int64) (cleared int64, err error) {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET refresh_token = NULL, refresh_token_expiry_time = NULL, updated_at = $1 WHERE refresh_token IS NOT NULL AND refresh_token_expiry_time <= $1", now)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ClearExpiredRefreshTokens").Msg("")
		return 0, errs.ErrInternalServer
	}

	cleared, err = res.RowsAffected()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ClearExpiredRefreshTokens").Msg("")
		return 0, errs.ErrInternalServer
	}

	return cleared, nil
}
