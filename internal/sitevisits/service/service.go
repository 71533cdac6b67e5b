// Package service implements site-visit record capture with image upload.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"leadportal_backend/internal/adapters/storage"
	"leadportal_backend/internal/events"
	"leadportal_backend/internal/sitevisits/dataurl"
	"leadportal_backend/internal/sitevisits/repository"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
)

const (
	locationFolder = "site-visits/location"
	selfieFolder   = "site-visits/selfies"
	uploadsFolder  = "uploads"
)

type Service struct {
	repo  *repository.Repository
	store storage.StorageService
	bus   events.Bus
	cfg   config.MinIOConfig
	log   *logger.Logger
}

func New(repo *repository.Repository, store storage.StorageService, bus events.Bus, cfg config.MinIOConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, bus: bus, cfg: cfg, log: log}
}

type CreateVisitInput struct {
	OwnerName         string
	OwnerContact      string
	BuiltUpArea       *string
	Floors            *string
	EngineerName      *string
	EngineerContact   *string
	ContractorName    *string
	ContractorContact *string
	Comments          *string
	Lat               *float64
	Lng               *float64
	Response          *string
	LocationImages    []string // base64 data URLs
	Selfie            *string  // base64 data URL
}

// CreateVisit decodes and stores the embedded images, then persists the
// record with the resulting object keys.
func (s *Service) CreateVisit(ctx context.Context, userID int64, input CreateVisitInput) (repository.Visit, error) {
	const op = "sitevisits.CreateVisit"

	bucket := s.cfg.GetMinioBucketSiteVisitImages()

	imageKeys := make([]string, 0, len(input.LocationImages))
	for i, raw := range input.LocationImages {
		key, err := s.uploadDataURL(ctx, bucket, locationFolder, raw)
		if err != nil {
			return repository.Visit{}, apperr.BadRequest(fmt.Sprintf("location image %d: %v", i+1, err))
		}
		imageKeys = append(imageKeys, key)
	}

	var selfieKey *string
	if input.Selfie != nil && *input.Selfie != "" {
		key, err := s.uploadDataURL(ctx, bucket, selfieFolder, *input.Selfie)
		if err != nil {
			return repository.Visit{}, apperr.BadRequest(fmt.Sprintf("selfie: %v", err))
		}
		selfieKey = &key
	}

	visit, err := s.repo.CreateVisit(ctx, repository.Visit{
		OwnerName:         input.OwnerName,
		OwnerContact:      input.OwnerContact,
		BuiltUpArea:       input.BuiltUpArea,
		Floors:            input.Floors,
		EngineerName:      input.EngineerName,
		EngineerContact:   input.EngineerContact,
		ContractorName:    input.ContractorName,
		ContractorContact: input.ContractorContact,
		Comments:          input.Comments,
		Lat:               input.Lat,
		Lng:               input.Lng,
		Response:          input.Response,
		LocationImages:    imageKeys,
		SelfieKey:         selfieKey,
		UserID:            userID,
	})
	if err != nil {
		return repository.Visit{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	s.bus.Publish(ctx, events.VisitRecorded{
		BaseEvent: events.NewBaseEvent(),
		VisitID:   visit.ID,
		UserID:    userID,
		OwnerName: visit.OwnerName,
	})

	return visit, nil
}

func (s *Service) uploadDataURL(ctx context.Context, bucket, folder, raw string) (string, error) {
	img, err := dataurl.Parse(raw)
	if err != nil {
		return "", err
	}
	if !storage.IsImageContentType(img.ContentType) {
		return "", errors.New("only image uploads are accepted")
	}
	if err := s.store.ValidateContentType(img.ContentType); err != nil {
		return "", err
	}
	if err := s.store.ValidateFileSize(int64(len(img.Data))); err != nil {
		return "", err
	}

	fileName := uuid.NewString() + dataurl.Extension(img.ContentType)
	return s.store.UploadFile(ctx, bucket, folder, fileName, img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data)))
}

// ListMine returns the caller's visit records, newest first.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]repository.Visit, error) {
	const op = "sitevisits.ListMine"

	visits, err := s.repo.ListVisitsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	return visits, nil
}

// ListAll returns every visit record. Admin only, enforced at the route level.
func (s *Service) ListAll(ctx context.Context) ([]repository.Visit, error) {
	const op = "sitevisits.ListAll"

	visits, err := s.repo.ListAllVisits(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	return visits, nil
}

// UploadImage stores a standalone data-URL image and returns a presigned
// download URL for it.
func (s *Service) UploadImage(ctx context.Context, raw string) (*storage.PresignedURL, error) {
	const op = "sitevisits.UploadImage"

	bucket := s.cfg.GetMinioBucketSiteVisitImages()
	key, err := s.uploadDataURL(ctx, bucket, uploadsFolder, raw)
	if err != nil {
		return nil, apperr.BadRequest(err.Error())
	}

	url, err := s.store.GenerateDownloadURL(ctx, bucket, key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	return url, nil
}
