package authRepository

import (
	"AgeGenderDetector/internal/api/auth"
	"AgeGenderDetector/internal/entity"
	contextPkg "AgeGenderDetector/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"time"
)

const uniqueViolation = "23505"

type UserDB struct {
	ID        sql.NullString `db:"id"`
	Username  sql.NullString `db:"username"`
	Email     sql.NullString `db:"email"`
	Password  sql.NullString `db:"password"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (u UserDB) toEntity() entity.User {
	return entity.User{
		ID:        u.ID.String,
		Username:  u.Username.String,
		Email:     u.Email.String,
		Password:  u.Password.String,
		CreatedAt: u.CreatedAt.Time,
	}
}

func (r *userRepository) CreateUser(c context.Context, user entity.User) error {
	requestID := contextPkg.GetRequestID(c)

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	argsKV := map[string]interface{}{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"password":   user.Password,
		"created_at": createdAt,
	}

	query, args, err := sqlx.Named(queryCreateUser, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateUser")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
				"constraint": pqErr.Constraint,
			}).Warn("Username or email already exists")
			return auth.ErrDuplicateUser
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating user")

		return err
	}

	return nil
}

func (r *userRepository) GetByID(c context.Context, id string) (entity.User, error) {
	return r.getOne(c, "GetByID", queryGetById, map[string]interface{}{"id": id})
}

func (r *userRepository) GetByUsername(c context.Context, username string) (entity.User, error) {
	return r.getOne(c, "GetByUsername", queryGetByUsername, map[string]interface{}{"username": username})
}

func (r *userRepository) GetByEmail(c context.Context, email string) (entity.User, error) {
	return r.getOne(c, "GetByEmail", queryGetByEmail, map[string]interface{}{"email": email})
}

func (r *userRepository) getOne(c context.Context, op string, namedQuery string, argsKV map[string]interface{}) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)
	var user UserDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")

		return entity.User{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Debug(op + " no rows found")
			return entity.User{}, auth.ErrUserNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " query failed")
		return entity.User{}, err
	}

	return user.toEntity(), nil
}

func (r *userRepository) ExistsByUsernameOrEmail(c context.Context, username string, email string) (bool, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryExistsByUsernameOrEmail, map[string]interface{}{
		"username": username,
		"email":    email,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ExistsByUsernameOrEmail named query preparation err")
		return false, err
	}

	query = r.q.Rebind(query)

	var exists bool
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&exists); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ExistsByUsernameOrEmail query failed")
		return false, err
	}

	return exists, nil
}
