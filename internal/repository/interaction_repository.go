// internal/repository/interaction_repository.go
package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/errors"
	"github.com/Purdy-and-Figg/pf-dixa-retently-app/internal/model"
)

type InteractionRepositoryInterface interface {
	Save(customerID, interactionType string, data model.InteractionData, sendAfter time.Duration) (*model.Interaction, error)
	Exists(customerID, email string) (bool, error)
	Schedule(customerID string, sendAfter time.Duration) error
	DueForDispatch() ([]*model.Interaction, error)
	MarkSent(id int) error
	Page(offset, limit int) ([]*model.Interaction, int, error)
}

type InteractionRepository struct {
	DB *sql.DB
}

const interactionColumns = `id, customer_id, interaction_type, interaction_data, requester_email, created_at, retently_sent, retently_scheduled_at`

// Save inserts the interaction with its dispatch time in a single statement,
// so a row can never exist unscheduled. A unique violation on customer_id
// comes back as DuplicateCustomerError; the constraint, not the caller's
// Exists pre-check, is the dedup authority.
func (r *InteractionRepository) Save(customerID, interactionType string, data model.InteractionData, sendAfter time.Duration) (*model.Interaction, error) {
	email, _ := data.Requester()
	scheduledAt := time.Now().Add(sendAfter)

	interaction := &model.Interaction{
		CustomerID:          &customerID,
		InteractionType:     interactionType,
		InteractionData:     data,
		RequesterEmail:      email,
		RetentlyScheduledAt: &scheduledAt,
	}

	query := `
        INSERT INTO customer_interactions (customer_id, interaction_type, interaction_data, requester_email, retently_scheduled_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, retently_sent
    `
	err := r.DB.QueryRow(query, customerID, interactionType, data, nullableString(email), scheduledAt).
		Scan(&interaction.ID, &interaction.CreatedAt, &interaction.RetentlySent)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, appErrors.NewDuplicateCustomer(customerID)
		}
		return nil, appErrors.NewStorage("save interaction", err)
	}
	return interaction, nil
}

// Exists reports whether the customer already has an interaction row. The
// email fallback only applies to legacy rows with a null customer_id; for
// rows predating the requester_email column it probes the JSONB payload.
func (r *InteractionRepository) Exists(customerID, email string) (bool, error) {
	query := `
        SELECT EXISTS(
            SELECT 1 FROM customer_interactions
            WHERE customer_id = $1
               OR (customer_id IS NULL AND (
                     requester_email = $2
                  OR interaction_data #>> '{requester,email}' = $2
               ))
        )
    `
	var exists bool
	if err := r.DB.QueryRow(query, customerID, email).Scan(&exists); err != nil {
		return false, appErrors.NewStorage("check existing customer", err)
	}
	return exists, nil
}

// Schedule re-stamps the dispatch time for a customer's row. Silent no-op
// when no row matches.
func (r *InteractionRepository) Schedule(customerID string, sendAfter time.Duration) error {
	query := `UPDATE customer_interactions SET retently_scheduled_at = $1 WHERE customer_id = $2`
	if _, err := r.DB.Exec(query, time.Now().Add(sendAfter), customerID); err != nil {
		return appErrors.NewStorage("schedule interaction", err)
	}
	return nil
}

// DueForDispatch returns every unsent row whose scheduled time has passed.
func (r *InteractionRepository) DueForDispatch() ([]*model.Interaction, error) {
	query := `
        SELECT ` + interactionColumns + `
        FROM customer_interactions
        WHERE retently_sent = FALSE
          AND retently_scheduled_at IS NOT NULL
          AND retently_scheduled_at <= NOW()
        ORDER BY retently_scheduled_at
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, appErrors.NewStorage("fetch due interactions", err)
	}
	defer rows.Close()

	interactions := []*model.Interaction{}
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, appErrors.NewStorage("scan due interaction", err)
		}
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorage("iterate due interactions", err)
	}
	return interactions, nil
}

// MarkSent flips retently_sent to true. Idempotent; marking an already-sent
// row again is harmless.
func (r *InteractionRepository) MarkSent(id int) error {
	query := `UPDATE customer_interactions SET retently_sent = TRUE WHERE id = $1`
	if _, err := r.DB.Exec(query, id); err != nil {
		return appErrors.NewStorage("mark interaction sent", err)
	}
	return nil
}

// Page returns one page of interactions ordered by creation time descending,
// plus the total row count.
func (r *InteractionRepository) Page(offset, limit int) ([]*model.Interaction, int, error) {
	query := `
        SELECT ` + interactionColumns + `
        FROM customer_interactions
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, 0, appErrors.NewStorage("list interactions", err)
	}
	defer rows.Close()

	interactions := []*model.Interaction{}
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, 0, appErrors.NewStorage("scan interaction", err)
		}
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, appErrors.NewStorage("iterate interactions", err)
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM customer_interactions`).Scan(&total); err != nil {
		return nil, 0, appErrors.NewStorage("count interactions", err)
	}
	return interactions, total, nil
}

func scanInteraction(rows *sql.Rows) (*model.Interaction, error) {
	var (
		interaction model.Interaction
		customerID  sql.NullString
		email       sql.NullString
		scheduledAt sql.NullTime
	)
	err := rows.Scan(
		&interaction.ID, &customerID, &interaction.InteractionType,
		&interaction.InteractionData, &email, &interaction.CreatedAt,
		&interaction.RetentlySent, &scheduledAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		interaction.CustomerID = &customerID.String
	}
	interaction.RequesterEmail = email.String
	if scheduledAt.Valid {
		interaction.RetentlyScheduledAt = &scheduledAt.Time
	}
	return &interaction, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

var _ InteractionRepositoryInterface = (*InteractionRepository)(nil)
