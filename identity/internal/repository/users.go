package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/adelbaev/lending-service/identity/internal/errs"
	"github.com/adelbaev/lending-service/identity/internal/model"
)

var userColumns = []string{
	"id", "email", "full_name", "password_hash", "role", "created_at",
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("email", "full_name", "password_hash", "role").
		Values(user.Email, user.FullName, user.PasswordHash, user.Role).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		return model.User{}, classify(err)
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, userID string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": userID})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": email})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	q, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
