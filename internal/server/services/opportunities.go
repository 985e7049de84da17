package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/connectlink/internal/common"
	"github.com/dmitrijs2005/connectlink/internal/server/models"
	"github.com/dmitrijs2005/connectlink/internal/server/repositories/repomanager"
)

const (
	DefaultOpportunityLimit = 50
	MaxOpportunityLimit     = 100
)

type CreateOpportunityInput struct {
	Title          string
	Description    string
	Location       string
	SkillsRequired []string
	Commitment     string
	Status         models.OpportunityStatus
}

type OpportunityService struct {
	repos repomanager.RepositoryManager
}

func NewOpportunityService(repos repomanager.RepositoryManager) *OpportunityService {
	return &OpportunityService{repos: repos}
}

// List returns open opportunities, newest first. A zero limit selects the
// default.
func (s *OpportunityService) List(ctx context.Context, limit int) ([]models.Opportunity, error) {
	if limit == 0 {
		limit = DefaultOpportunityLimit
	}
	if limit < 1 || limit > MaxOpportunityLimit {
		return nil, common.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxOpportunityLimit))
	}

	list, err := s.repos.Opportunities().List(ctx, models.OpportunityOpen, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing opportunities: %w", err)
	}
	return list, nil
}

// View returns one opportunity and counts the view.
func (s *OpportunityService) View(ctx context.Context, id string) (*models.Opportunity, error) {
	o, err := s.repos.Opportunities().View(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading opportunity: %w", err)
	}
	return o, nil
}

func (s *OpportunityService) Create(ctx context.Context, user *models.User, in CreateOpportunityInput) (*models.Opportunity, error) {
	if user.UserType != models.UserTypeOrganization {
		return nil, common.ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, common.NewValidationError("Please provide title and description")
	}

	status := in.Status
	if status == "" {
		status = models.OpportunityOpen
	}
	if !status.Valid() {
		return nil, common.NewValidationError("status must be open, closed or draft")
	}

	o, err := s.repos.Opportunities().Create(ctx, &models.Opportunity{
		Title:            title,
		Description:      description,
		OrganizationID:   user.ID,
		OrganizationName: user.DisplayName(),
		Location:         strings.TrimSpace(in.Location),
		SkillsRequired:   normalizeList(in.SkillsRequired),
		Commitment:       strings.TrimSpace(in.Commitment),
		Status:           status,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating opportunity: %w", err)
	}
	return o, nil
}

// Apply records user's application and bumps the applicant count in one
// transaction.
func (s *OpportunityService) Apply(ctx context.Context, user *models.User, opportunityID, message string) (*models.Application, error) {
	if user.UserType != models.UserTypeVolunteer {
		return nil, common.ErrForbidden
	}

	var application *models.Application

	err := s.repos.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		o, err := r.Opportunities().Get(ctx, opportunityID)
		if err != nil {
			return err
		}
		if o.Status != models.OpportunityOpen {
			return common.ErrOpportunityClosed
		}

		application, err = r.Applications().Create(ctx, &models.Application{
			OpportunityID: opportunityID,
			UserID:        user.ID,
			Message:       strings.TrimSpace(message),
		})
		if err != nil {
			return err
		}

		return r.Opportunities().IncrementApplicants(ctx, opportunityID)
	})

	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound),
			errors.Is(err, common.ErrOpportunityClosed),
			errors.Is(err, common.ErrAlreadyApplied):
			return nil, err
		}
		return nil, fmt.Errorf("error applying: %w", err)
	}

	return application, nil
}
