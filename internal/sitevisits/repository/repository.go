// Package repository provides persistence for site-visit records.
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

type Visit struct {
	ID                int64     `json:"id"`
	OwnerName         string    `json:"owner_name"`
	OwnerContact      string    `json:"owner_contact"`
	BuiltUpArea       *string   `json:"built_up_area"`
	Floors            *string   `json:"floors"`
	EngineerName      *string   `json:"engineer_name"`
	EngineerContact   *string   `json:"engineer_contact"`
	ContractorName    *string   `json:"contractor_name"`
	ContractorContact *string   `json:"contractor_contact"`
	Comments          *string   `json:"comments"`
	Lat               *float64  `json:"lat"`
	Lng               *float64  `json:"lng"`
	Response          *string   `json:"response"`
	LocationImages    []string  `json:"location_images"`
	SelfieKey         *string   `json:"selfie_key"`
	UserID            int64     `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

const visitColumns = `id, owner_name, owner_contact, built_up_area, floors,
	engineer_name, engineer_contact, contractor_name, contractor_contact,
	comments, lat, lng, response, location_images, selfie_key, user_id,
	created_at, updated_at`

func scanVisit(row pgx.Row) (Visit, error) {
	var visit Visit
	var imagesJSON []byte
	err := row.Scan(
		&visit.ID,
		&visit.OwnerName,
		&visit.OwnerContact,
		&visit.BuiltUpArea,
		&visit.Floors,
		&visit.EngineerName,
		&visit.EngineerContact,
		&visit.ContractorName,
		&visit.ContractorContact,
		&visit.Comments,
		&visit.Lat,
		&visit.Lng,
		&visit.Response,
		&imagesJSON,
		&visit.SelfieKey,
		&visit.UserID,
		&visit.CreatedAt,
		&visit.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Visit{}, ErrNotFound
	}
	if err != nil {
		return Visit{}, err
	}
	visit.LocationImages = make([]string, 0)
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &visit.LocationImages); err != nil {
			return Visit{}, err
		}
	}
	return visit, nil
}

func (r *Repository) CreateVisit(ctx context.Context, visit Visit) (Visit, error) {
	imagesJSON, err := json.Marshal(visit.LocationImages)
	if err != nil {
		return Visit{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO site_details (
			owner_name, owner_contact, built_up_area, floors,
			engineer_name, engineer_contact, contractor_name, contractor_contact,
			comments, lat, lng, response, location_images, selfie_key, user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+visitColumns+`
	`,
		visit.OwnerName, visit.OwnerContact, visit.BuiltUpArea, visit.Floors,
		visit.EngineerName, visit.EngineerContact, visit.ContractorName, visit.ContractorContact,
		visit.Comments, visit.Lat, visit.Lng, visit.Response, imagesJSON, visit.SelfieKey, visit.UserID,
	)
	return scanVisit(row)
}

func (r *Repository) ListVisitsByUser(ctx context.Context, userID int64) ([]Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+visitColumns+` FROM site_details
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisits(rows)
}

func (r *Repository) ListAllVisits(ctx context.Context) ([]Visit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+visitColumns+` FROM site_details
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVisits(rows)
}

func collectVisits(rows pgx.Rows) ([]Visit, error) {
	visits := make([]Visit, 0)
	for rows.Next() {
		visit, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}
	return visits, rows.Err()
}
