package workitems

import (
	"context"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
)

// Services groups the three kinds behind one handle.
type Services struct {
	Complaints   Service
	Repairs      Service
	Replacements Service
}

// Dashboard is what one user sees for their company.
type Dashboard struct {
	Complaints   []WorkItemDTO `json:"complaints"`
	Repairs      []WorkItemDTO `json:"repairs"`
	Replacements []WorkItemDTO `json:"replacements"`
}

func NewServices(params ServiceParams) (*Services, error) {
	complaints, err := newService[models.Complaint](Complaints, params)
	if err != nil {
		return nil, err
	}
	repairs, err := newService[models.Repair](Repairs, params)
	if err != nil {
		return nil, err
	}
	replacements, err := newService[models.Replacement](Replacements, params)
	if err != nil {
		return nil, err
	}
	return &Services{
		Complaints:   complaints,
		Repairs:      repairs,
		Replacements: replacements,
	}, nil
}

// For returns the service handling kind.
func (s *Services) For(kind Kind) Service {
	switch kind.Name {
	case Complaints.Name:
		return s.Complaints
	case Repairs.Name:
		return s.Repairs
	case Replacements.Name:
		return s.Replacements
	}
	return nil
}

// Dashboard lists each kind the actor may view. Kinds without the view
// capability come back empty.
func (s *Services) Dashboard(ctx context.Context, actor rbac.Actor) (*Dashboard, error) {
	complaints, err := s.Complaints.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	repairs, err := s.Repairs.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	replacements, err := s.Replacements.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Complaints:   complaints,
		Repairs:      repairs,
		Replacements: replacements,
	}, nil
}
