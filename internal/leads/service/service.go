// Package service implements the lead lifecycle: intake, transitions,
// access-scoped reads.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadportal_backend/internal/events"
	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/repository"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/phone"
)

const systemAuthor = "System"

// scheduleCommentLayout is the human-readable date format used in the
// system-authored schedule comment.
const scheduleCommentLayout = "02/01/2006, 03:04 PM"

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	cfg  config.LicenseConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, cfg config.LicenseConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, cfg: cfg, log: log}
}

// Actor identifies the authenticated caller of a scoped operation.
type Actor struct {
	ID      int64
	Name    string
	IsAdmin bool
}

type CreateLeadInput struct {
	Name     string
	Contact  string
	City     *string
	Time     *time.Time
	Platform *string
}

// CreateLead persists an inbound webhook lead with response "new" and
// publishes LeadCreated. Fan-out runs detached; its outcome never affects
// the returned lead or error.
func (s *Service) CreateLead(ctx context.Context, input CreateLeadInput) (repository.Lead, error) {
	const op = "leads.CreateLead"

	contact := input.Contact
	if contact != "" {
		contact = phone.NormalizeE164(contact)
	}

	lead, err := s.repo.CreateLead(ctx, repository.CreateLeadParams{
		Name:     input.Name,
		Contact:  contact,
		City:     input.City,
		Time:     input.Time,
		Platform: input.Platform,
	})
	if err != nil {
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	event := events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Contact:   lead.Contact,
		Time:      lead.Time,
	}
	if lead.City != nil {
		event.City = *lead.City
	}
	if lead.Platform != nil {
		event.Platform = *lead.Platform
	}
	s.bus.Publish(ctx, event)

	return lead, nil
}

// ListLeads returns leads visible to the actor, newest first.
func (s *Service) ListLeads(ctx context.Context, actor Actor) ([]repository.Lead, error) {
	const op = "leads.ListLeads"

	leads, err := s.repo.ListLeads(ctx, actor.ID, actor.IsAdmin)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	return leads, nil
}

// LeadDetail is the GET /leads/:id payload: the lead, the canonical status
// vocabulary, and the assignable user roster.
type LeadDetail struct {
	Lead     repository.Lead          `json:"lead"`
	Statuses []string                 `json:"statuses"`
	Users    []repository.UserSummary `json:"users"`
}

// GetLead returns a single lead with vocabulary and roster. Non-admin actors
// only see leads whose access list contains them; anything else is a 404.
func (s *Service) GetLead(ctx context.Context, actor Actor, leadID int64) (LeadDetail, error) {
	const op = "leads.GetLead"

	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LeadDetail{}, apperr.NotFound("lead")
		}
		return LeadDetail{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	if !actor.IsAdmin && !containsID(lead.Access, actor.ID) {
		return LeadDetail{}, apperr.NotFound("lead")
	}

	roster, err := s.repo.ListUserRoster(ctx)
	if err != nil {
		return LeadDetail{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	return LeadDetail{
		Lead:     lead,
		Statuses: domain.StatusVocabulary,
		Users:    roster,
	}, nil
}

// TransitionPatch carries the PATCH /leads/:id mutation set. Pointer fields
// distinguish "absent" from "present but empty"; AccessSupplied does the same
// for the access list since an empty slice is a valid replacement.
type TransitionPatch struct {
	Response       *string
	NewComment     *string
	City           *string
	VisitSchedule  *time.Time
	Access         []int64
	AccessSupplied bool
	Author         string
}

// TransitionResult pairs the updated lead with the user roster.
type TransitionResult struct {
	Lead  repository.Lead          `json:"lead"`
	Users []repository.UserSummary `json:"users"`
}

// ApplyTransition mutates a lead per the patch. The read-modify-write on the
// comment log and access list is serialized per lead with a row lock so
// concurrent transitions never lose appends.
func (s *Service) ApplyTransition(ctx context.Context, leadID int64, patch TransitionPatch) (TransitionResult, error) {
	const op = "leads.ApplyTransition"

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return TransitionResult{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	defer tx.Rollback(ctx)

	lead, err := s.repo.GetLeadForUpdate(ctx, tx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TransitionResult{}, apperr.NotFound("lead")
		}
		return TransitionResult{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	applyPatch(&lead, patch, time.Now())

	updated, err := s.repo.UpdateLead(ctx, tx, lead)
	if err != nil {
		return TransitionResult{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	if err := tx.Commit(ctx); err != nil {
		return TransitionResult{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	roster, err := s.repo.ListUserRoster(ctx)
	if err != nil {
		return TransitionResult{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	return TransitionResult{Lead: updated, Users: roster}, nil
}

// applyPatch applies the transition steps in order: status replace, schedule
// derivation against the effective new status, comment appends, access
// replacement, city passthrough.
func applyPatch(lead *repository.Lead, patch TransitionPatch, now time.Time) {
	if patch.Response != nil {
		lead.Response = *patch.Response
	}

	if patch.VisitSchedule != nil {
		lead.VisitSchedule = patch.VisitSchedule
	}
	if domain.IsTerminal(lead.Response) {
		// Terminal and neutral statuses never carry a pending visit.
		lead.VisitSchedule = nil
	}

	if patch.NewComment != nil && strings.TrimSpace(*patch.NewComment) != "" {
		author := patch.Author
		if author == "" {
			author = "User"
		}
		lead.Comment = append(lead.Comment, repository.Comment{
			Author: author,
			Text:   *patch.NewComment,
			Date:   now,
		})
	}
	if patch.VisitSchedule != nil {
		// The schedule comment records the request even when a terminal
		// status cleared the schedule in the same call.
		lead.Comment = append(lead.Comment, repository.Comment{
			Author: systemAuthor,
			Text:   "Update: Call scheduled for " + patch.VisitSchedule.Format(scheduleCommentLayout),
			Date:   now,
		})
	}

	if patch.AccessSupplied {
		if patch.Access == nil {
			patch.Access = make([]int64, 0)
		}
		lead.Access = patch.Access
	}

	if patch.City != nil {
		lead.City = patch.City
	}
}

// NewLeadCounts is the GET /leads/count/new payload.
type NewLeadCounts struct {
	Count      int64                    `json:"count"`
	TodayCount int                      `json:"todayCount"`
	TodayLeads []repository.LeadSummary `json:"todayLeads"`
	Left       int                      `json:"left"`
}

// CountNew reports the actor-scoped count of fresh leads plus the leads whose
// visit date is due today or overdue.
func (s *Service) CountNew(ctx context.Context, actor Actor) (NewLeadCounts, error) {
	const op = "leads.CountNew"

	count, err := s.repo.CountNew(ctx, actor.ID, actor.IsAdmin)
	if err != nil {
		return NewLeadCounts{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}
	due, err := s.repo.ListDueVisits(ctx, actor.ID, actor.IsAdmin)
	if err != nil {
		return NewLeadCounts{}, apperr.Wrap(apperr.KindInternal, "operation failed", err).WithOp(op)
	}

	return NewLeadCounts{
		Count:      count,
		TodayCount: len(due),
		TodayLeads: due,
		Left:       s.cfg.GetSubscriptionDaysLeft(),
	}, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
