package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util"
)

// OrgResolver answers supervisor lookups against the organization tree.
// Lookups are plain reads so chains always see the latest persisted state;
// approvals for one ticket can be created moments apart.
type OrgResolver struct {
	people repository.PersonRepository
}

// NewOrgResolver constructs the resolver.
func NewOrgResolver(people repository.PersonRepository) *OrgResolver {
	return &OrgResolver{people: people}
}

// SupervisorOf returns the direct supervisor of the given person, or nil
// when the person sits at the top of their division tree.
func (o *OrgResolver) SupervisorOf(ctx context.Context, personID string) (*domain.Person, error) {
	person, err := o.people.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("person", map[string]any{"person_id": personID})
		}
		return nil, apperrors.MapError(err)
	}
	if person.SupervisorID == nil {
		return nil, nil
	}
	supervisor, err := o.people.GetByID(ctx, *person.SupervisorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A dangling supervisor reference is corrupt data, not a chain
			// terminal.
			return nil, apperrors.NewBrokenHierarchy(personID)
		}
		return nil, apperrors.MapError(err)
	}
	return supervisor, nil
}

// RequiredSupervisorOf resolves the supervisor a chain step depends on; a
// missing reference fails the operation instead of silently ending the
// chain.
func (o *OrgResolver) RequiredSupervisorOf(ctx context.Context, personID string) (*domain.Person, error) {
	supervisor, err := o.SupervisorOf(ctx, personID)
	if err != nil {
		return nil, err
	}
	if supervisor == nil {
		return nil, apperrors.NewBrokenHierarchy(personID)
	}
	return supervisor, nil
}
