// Package repository provides persistence for leads.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Comment is one entry of a lead's append-only comment log.
type Comment struct {
	Author string    `json:"author"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type Lead struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Contact       string     `json:"contact"`
	City          *string    `json:"city"`
	Time          *time.Time `json:"time"`
	Platform      *string    `json:"platform"`
	Response      string     `json:"response"`
	Comment       []Comment  `json:"comment"`
	VisitSchedule *time.Time `json:"visit_schedule"`
	Access        []int64    `json:"access"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LeadSummary is the comment-free projection used by the due-visit read path.
type LeadSummary struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Contact       string     `json:"contact"`
	City          *string    `json:"city"`
	Time          *time.Time `json:"time"`
	Platform      *string    `json:"platform"`
	Response      string     `json:"response"`
	VisitSchedule *time.Time `json:"visit_schedule"`
	Access        []int64    `json:"access"`
}

// UserSummary is the id+name projection of the non-admin roster returned
// alongside lead detail and transition responses.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const leadColumns = `id, name, contact, city, time, platform, response, comment, visit_schedule, access, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	var commentJSON []byte
	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Contact,
		&lead.City,
		&lead.Time,
		&lead.Platform,
		&lead.Response,
		&commentJSON,
		&lead.VisitSchedule,
		&lead.Access,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	lead.Comment = make([]Comment, 0)
	if len(commentJSON) > 0 {
		if err := json.Unmarshal(commentJSON, &lead.Comment); err != nil {
			return Lead{}, err
		}
	}
	if lead.Access == nil {
		lead.Access = make([]int64, 0)
	}
	return lead, nil
}

type CreateLeadParams struct {
	Name     string
	Contact  string
	City     *string
	Time     *time.Time
	Platform *string
}

func (r *Repository) CreateLead(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO meta_leads (name, contact, city, time, platform)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+leadColumns+`
	`, params.Name, params.Contact, params.City, params.Time, params.Platform)
	return scanLead(row)
}

func (r *Repository) GetLead(ctx context.Context, leadID int64) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM meta_leads WHERE id = $1
	`, leadID)
	return scanLead(row)
}

// Begin opens a transaction for a transition. Callers must commit or roll back.
func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// GetLeadForUpdate loads a lead inside tx with a row lock, serializing
// concurrent transitions on the same lead.
func (r *Repository) GetLeadForUpdate(ctx context.Context, tx pgx.Tx, leadID int64) (Lead, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM meta_leads WHERE id = $1 FOR UPDATE
	`, leadID)
	return scanLead(row)
}

// UpdateLead persists all mutable transition fields in one statement.
func (r *Repository) UpdateLead(ctx context.Context, tx pgx.Tx, lead Lead) (Lead, error) {
	commentJSON, err := json.Marshal(lead.Comment)
	if err != nil {
		return Lead{}, err
	}
	row := tx.QueryRow(ctx, `
		UPDATE meta_leads
		SET response = $2,
		    comment = $3,
		    visit_schedule = $4,
		    access = $5,
		    city = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, lead.ID, lead.Response, commentJSON, lead.VisitSchedule, lead.Access, lead.City)
	return scanLead(row)
}

const listLeadsAdminQuery = `
	SELECT ` + leadColumns + ` FROM meta_leads
	ORDER BY time DESC NULLS LAST, id DESC
`

const listLeadsScopedQuery = `
	SELECT ` + leadColumns + ` FROM meta_leads
	WHERE access @> ARRAY[$1]::bigint[]
	ORDER BY time DESC NULLS LAST, id DESC
`

// ListLeads returns leads visible to the caller, newest platform time first.
// Admins see everything; other users only leads whose access list contains
// their id.
func (r *Repository) ListLeads(ctx context.Context, userID int64, isAdmin bool) ([]Lead, error) {
	var rows pgx.Rows
	var err error
	if isAdmin {
		rows, err = r.pool.Query(ctx, listLeadsAdminQuery)
	} else {
		rows, err = r.pool.Query(ctx, listLeadsScopedQuery, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

const countNewAdminQuery = `
	SELECT count(*) FROM meta_leads WHERE response = 'new'
`

const countNewScopedQuery = `
	SELECT count(*) FROM meta_leads
	WHERE response = 'new' AND access @> ARRAY[$1]::bigint[]
`

func (r *Repository) CountNew(ctx context.Context, userID int64, isAdmin bool) (int64, error) {
	var row pgx.Row
	if isAdmin {
		row = r.pool.QueryRow(ctx, countNewAdminQuery)
	} else {
		row = r.pool.QueryRow(ctx, countNewScopedQuery, userID)
	}
	var count int64
	err := row.Scan(&count)
	return count, err
}

const summaryColumns = `id, name, contact, city, time, platform, response, visit_schedule, access`

const dueVisitsAdminQuery = `
	SELECT ` + summaryColumns + ` FROM meta_leads
	WHERE visit_schedule IS NOT NULL AND visit_schedule::date <= CURRENT_DATE
	ORDER BY visit_schedule ASC
`

const dueVisitsScopedQuery = `
	SELECT ` + summaryColumns + ` FROM meta_leads
	WHERE visit_schedule IS NOT NULL AND visit_schedule::date <= CURRENT_DATE
	  AND access @> ARRAY[$1]::bigint[]
	ORDER BY visit_schedule ASC
`

// ListDueVisits returns leads whose visit date part is on or before today,
// under the same access scope, comment log excluded.
func (r *Repository) ListDueVisits(ctx context.Context, userID int64, isAdmin bool) ([]LeadSummary, error) {
	var rows pgx.Rows
	var err error
	if isAdmin {
		rows, err = r.pool.Query(ctx, dueVisitsAdminQuery)
	} else {
		rows, err = r.pool.Query(ctx, dueVisitsScopedQuery, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]LeadSummary, error) {
	summaries := make([]LeadSummary, 0)
	for rows.Next() {
		var s LeadSummary
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Contact,
			&s.City,
			&s.Time,
			&s.Platform,
			&s.Response,
			&s.VisitSchedule,
			&s.Access,
		); err != nil {
			return nil, err
		}
		if s.Access == nil {
			s.Access = make([]int64, 0)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

const userRosterQuery = `
	SELECT id, name FROM users WHERE role = 'user' ORDER BY name
`

// ListUserRoster returns the id+name projection of non-admin users, attached
// to lead detail and transition responses for assignment UIs.
func (r *Repository) ListUserRoster(ctx context.Context) ([]UserSummary, error) {
	rows, err := r.pool.Query(ctx, userRosterQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roster := make([]UserSummary, 0)
	for rows.Next() {
		var entry UserSummary
		if err := rows.Scan(&entry.ID, &entry.Name); err != nil {
			return nil, err
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}
