package repository

import (
	"context"
	"database/sql"

	"github.com/modelify-app/modelify-backend/internal/users/domain"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user row by the auth provider's user id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, role, company_name,
		       street_address, city, postal_code, stripe_customer_id,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	var firstName, lastName, companyName, streetAddress, city, postalCode sql.NullString
	var stripeCustomerID sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&firstName,
		&lastName,
		&user.Role,
		&companyName,
		&streetAddress,
		&city,
		&postalCode,
		&stripeCustomerID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.CompanyName = companyName.String
	user.StreetAddress = streetAddress.String
	user.City = city.String
	user.PostalCode = postalCode.String
	if stripeCustomerID.Valid {
		user.StripeCustomerID = &stripeCustomerID.String
	}

	return &user, nil
}

// RoleOf returns just the persisted role for a user id.
func (r *UserRepository) RoleOf(ctx context.Context, id string) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if err == sql.ErrNoRows {
		return "", domain.ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, role, company_name,
		                   street_address, city, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.CompanyName,
		user.StreetAddress,
		user.City,
		user.PostalCode,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

// List returns all user rows, newest first.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, role, company_name,
		       street_address, city, postal_code, stripe_customer_id,
		       created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		var user domain.User
		var firstName, lastName, companyName, streetAddress, city, postalCode sql.NullString
		var stripeCustomerID sql.NullString

		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&firstName,
			&lastName,
			&user.Role,
			&companyName,
			&streetAddress,
			&city,
			&postalCode,
			&stripeCustomerID,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}

		user.FirstName = firstName.String
		user.LastName = lastName.String
		user.CompanyName = companyName.String
		user.StreetAddress = streetAddress.String
		user.City = city.String
		user.PostalCode = postalCode.String
		if stripeCustomerID.Valid {
			user.StripeCustomerID = &stripeCustomerID.String
		}

		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStripeCustomerID caches the external billing customer id on the user row.
func (r *UserRepository) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET stripe_customer_id = $2, updated_at = NOW() WHERE id = $1`,
		userID, customerID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
