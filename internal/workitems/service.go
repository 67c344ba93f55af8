package workitems

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/propertyhub/internal/rbac"
	"github.com/angelmondragon/propertyhub/internal/tenancy"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"github.com/angelmondragon/propertyhub/pkg/enums"
	pkgerrors "github.com/angelmondragon/propertyhub/pkg/errors"
	"github.com/angelmondragon/propertyhub/pkg/metrics"
	"gorm.io/gorm"
)

// Service runs create, update and delete for one work item kind.
type Service interface {
	Kind() Kind
	List(ctx context.Context, actor rbac.Actor) ([]WorkItemDTO, error)
	ListAll(ctx context.Context, actor rbac.Actor) ([]WorkItemDTO, error)
	Create(ctx context.Context, actor rbac.Actor, bind Binder) (*WorkItemDTO, error)
	Update(ctx context.Context, actor rbac.Actor, id uint, bind Binder) (*WorkItemDTO, error)
	Delete(ctx context.Context, actor rbac.Actor, id uint) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	DB() *gorm.DB
}

// ServiceParams bundles the dependencies shared by every kind.
type ServiceParams struct {
	DB       txRunner
	Metrics  *metrics.WorkItemMetrics
	Location *time.Location
	Now      func() time.Time
}

type service[T any, P interface {
	*T
	models.WorkItem
}] struct {
	kind    Kind
	db      txRunner
	metrics *metrics.WorkItemMetrics
	loc     *time.Location
	now     func() time.Time
}

func newService[T any, P interface {
	*T
	models.WorkItem
}](kind Kind, params ServiceParams) (*service[T, P], error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service[T, P]{
		kind:    kind,
		db:      params.DB,
		metrics: params.Metrics,
		loc:     loc,
		now:     now,
	}, nil
}

func (s *service[T, P]) Kind() Kind {
	return s.kind
}

// List returns the actor's company rows. Callers without the view capability
// get an empty list rather than an error.
func (s *service[T, P]) List(ctx context.Context, actor rbac.Actor) ([]WorkItemDTO, error) {
	if !actor.Can(s.kind.View) {
		return []WorkItemDTO{}, nil
	}
	list, err := NewRepository[T](s.db.DB()).ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list "+s.kind.Name)
	}
	return s.toDTOs(list), nil
}

// ListAll returns rows from every company for the admin console.
func (s *service[T, P]) ListAll(ctx context.Context, actor rbac.Actor) ([]WorkItemDTO, error) {
	if err := actor.Require(enums.CapabilityAdmin); err != nil {
		return nil, err
	}
	list, err := NewRepository[T](s.db.DB()).ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list all "+s.kind.Name)
	}
	return s.toDTOs(list), nil
}

// Create checks the manage capability before the submitted fields are bound.
func (s *service[T, P]) Create(ctx context.Context, actor rbac.Actor, bind Binder) (out *WorkItemDTO, err error) {
	defer s.observe("create", time.Now())(&err)
	if err := actor.Require(s.kind.Manage); err != nil {
		return nil, err
	}
	var req Request
	if err := bind(&req); err != nil {
		return nil, err
	}

	item := P(new(T))
	item.Stamp(actor.UserID, actor.CompanyID)
	item.Apply(req.Fields(models.DefaultStatus))
	item.SetCreatedAt(s.now().UTC())
	if err := NewRepository[T](s.db.DB()).Create(ctx, (*T)(item)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create "+s.kind.Name)
	}
	dto := fromSnapshot(s.kind, item.Snapshot(), s.loc)
	return &dto, nil
}

// Update overwrites every mutable field. The row is loaded first so a missing
// id is reported before capability and company checks, and the fields are
// bound last.
func (s *service[T, P]) Update(ctx context.Context, actor rbac.Actor, id uint, bind Binder) (out *WorkItemDTO, err error) {
	defer s.observe("update", time.Now())(&err)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		items := NewRepository[T](tx)
		item, err := s.load(ctx, items, actor, id, "update")
		if err != nil {
			return err
		}
		var req Request
		if err := bind(&req); err != nil {
			return err
		}
		item.Apply(req.Fields(item.Snapshot().Status))
		affected, err := items.Update(ctx, (*T)(item), actor.CompanyID, s.kind.columns())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update "+s.kind.Name)
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, s.kind.notFoundMessage())
		}
		dto := fromSnapshot(s.kind, item.Snapshot(), s.loc)
		out = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service[T, P]) Delete(ctx context.Context, actor rbac.Actor, id uint) (err error) {
	defer s.observe("delete", time.Now())(&err)
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		items := NewRepository[T](tx)
		if _, err := s.load(ctx, items, actor, id, "delete"); err != nil {
			return err
		}
		affected, err := items.Delete(ctx, id, actor.CompanyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete "+s.kind.Name)
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, s.kind.notFoundMessage())
		}
		return nil
	})
}

// load applies the checks shared by update and delete in order: existence,
// manage capability, then company ownership.
func (s *service[T, P]) load(ctx context.Context, items *Repository[T], actor rbac.Actor, id uint, verb string) (P, error) {
	row, err := items.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, s.kind.notFoundMessage())
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+s.kind.Name)
	}
	if err := actor.Require(s.kind.Manage); err != nil {
		return nil, err
	}
	item := P(row)
	if err := tenancy.Guard(actor, item.Base().CompanyID, s.kind.deniedMessage(verb)); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service[T, P]) observe(op string, started time.Time) func(*error) {
	return func(errp *error) {
		s.metrics.Observe(s.kind.Name, op, started, *errp)
	}
}

func (s *service[T, P]) toDTOs(list []T) []WorkItemDTO {
	out := make([]WorkItemDTO, 0, len(list))
	for i := range list {
		out = append(out, fromSnapshot(s.kind, P(&list[i]).Snapshot(), s.loc))
	}
	return out
}
