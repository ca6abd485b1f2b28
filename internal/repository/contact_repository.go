package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	appErrors "github.com/unclebandit/relief-campaign/internal/errors"
	"github.com/unclebandit/relief-campaign/internal/model"
)

// ContactRepositoryInterface defines methods used by services and controllers
type ContactRepositoryInterface interface {
	Create(ctx context.Context, c model.NewContact) (int, error)
	GetByID(ctx context.Context, id int) (*model.Contact, error)
	GetByIDs(ctx context.Context, ids []int) ([]model.Contact, error)
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *sql.DB
}

const contactColumns = `id, name, email, phone`

// Create validates and inserts a contact, returning its store-assigned id
func (r *ContactRepository) Create(ctx context.Context, c model.NewContact) (int, error) {
	name := strings.TrimSpace(c.Name)
	email := normalize(c.Email)
	phone := normalize(c.Phone)

	if name == "" {
		return 0, appErrors.NewValidation("name", "name must not be empty")
	}
	if email == nil && phone == nil {
		return 0, appErrors.NewValidation("", "At least one of email or phone must be provided.")
	}

	query := `INSERT INTO contacts (name, email, phone) VALUES ($1, $2, $3) RETURNING id`
	var id int
	if err := r.DB.QueryRowContext(ctx, query, name, email, phone).Scan(&id); err != nil {
		return 0, uniqueViolation(err, email, phone)
	}
	return id, nil
}

// GetByID fetches a contact or returns ErrContactNotFound
func (r *ContactRepository) GetByID(ctx context.Context, id int) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	c, err := scanContact(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewContactNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

// GetByIDs returns the stored contacts among ids in ascending id order.
// Unknown ids are skipped and repeated ids yield a single contact.
func (r *ContactRepository) GetByIDs(ctx context.Context, ids []int) ([]model.Contact, error) {
	contacts := []model.Contact{}
	if len(ids) == 0 {
		return contacts, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id IN (` + strings.Join(placeholders, ",") + `) ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// GetByEmail returns nil, nil when no contact has the address
func (r *ContactRepository) GetByEmail(ctx context.Context, email string) (*model.Contact, error) {
	return r.getBy(ctx, "email", email)
}

// GetByPhone returns nil, nil when no contact has the number
func (r *ContactRepository) GetByPhone(ctx context.Context, phone string) (*model.Contact, error) {
	return r.getBy(ctx, "phone", phone)
}

func (r *ContactRepository) getBy(ctx context.Context, column, value string) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + column + ` = $1`
	c, err := scanContact(r.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(s scanner) (*model.Contact, error) {
	var (
		c            model.Contact
		email, phone sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &email, &phone); err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	return &c, nil
}

// normalize maps blank values to NULL so they never collide on the unique index
func normalize(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

// uniqueViolation translates driver-specific unique constraint errors
func uniqueViolation(err error, email, phone *string) error {
	field := ""

	var pqErr *pq.Error
	var sqErr *sqlite.Error
	switch {
	case errors.As(err, &pqErr) && pqErr.Code == "23505":
		switch pqErr.Constraint {
		case "contacts_email_key":
			field = "email"
		case "contacts_phone_key":
			field = "phone"
		}
	case errors.As(err, &sqErr) && sqErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		msg := sqErr.Error()
		if !strings.Contains(msg, "UNIQUE") {
			return err
		}
		switch {
		case strings.Contains(msg, "contacts.email"):
			field = "email"
		case strings.Contains(msg, "contacts.phone"):
			field = "phone"
		}
	default:
		return err
	}

	switch field {
	case "email":
		return appErrors.NewUniqueViolation("email", *email)
	case "phone":
		return appErrors.NewUniqueViolation("phone", *phone)
	}
	return appErrors.NewUniqueViolation("", "")
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
