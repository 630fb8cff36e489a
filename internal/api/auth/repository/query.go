package authRepository

const (
	queryCreateUser = `
INSERT INTO users (id, username, email, password, created_at)
VALUES (:id, :username, :email, :password, :created_at)`

	queryGetById = `
SELECT id, username, email, password, created_at
FROM users
    WHERE id = :id`

	queryGetByUsername = `
SELECT id, username, email, password, created_at
FROM users
    WHERE username = :username`

	queryGetByEmail = `
SELECT id, username, email, password, created_at
FROM users
    WHERE email = :email`

	queryExistsByUsernameOrEmail = `
SELECT EXISTS (
    SELECT 1 FROM users WHERE username = :username OR email = :email
)`
)
