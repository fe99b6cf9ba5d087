package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/internal/grouping"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/db"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

const defaultQty = 1

// Editor identifies the crew member making a change.
type Editor struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// ListParams configures a grouped listing for one user.
type ListParams struct {
	UserID uuid.UUID
	Filter Filter
}

// CreateInput carries optional fields for a new item.
type CreateInput struct {
	Name       *string
	Qty        *int
	LocationID *uuid.UUID
}

// Service defines inventory operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	Create(ctx context.Context, editor Editor, input CreateInput) (*ItemDTO, error)
	UpdateName(ctx context.Context, editor Editor, id uuid.UUID, name string) (*ItemDTO, error)
	UpdateQty(ctx context.Context, editor Editor, id uuid.UUID, qty int) (*ItemDTO, error)
	UpdateLocation(ctx context.Context, editor Editor, id uuid.UUID, locationID *uuid.UUID) (*ItemDTO, error)
	Remove(ctx context.Context, editor Editor, id uuid.UUID) error
}

type orderSource interface {
	OrderMap(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error)
}

// ServiceParams groups the collaborators of the inventory service.
type ServiceParams struct {
	Items     Repository
	Locations locations.Repository
	Orders    orderSource
	Names     users.NameResolver
}

type service struct {
	items     Repository
	locations locations.Repository
	orders    orderSource
	names     users.NameResolver
	now       func() time.Time
}

// NewService wires inventory dependencies.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Items == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	case params.Locations == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "locations repository required")
	case params.Orders == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order source required")
	case params.Names == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "name resolver required")
	}
	return &service{
		items:     params.Items,
		locations: params.Locations,
		orders:    params.Orders,
		names:     params.Names,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// List returns the grouped view for the caller with current editor names.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	active, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	items, err := s.items.ListActive(ctx, params.Filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	orders, err := s.orders.OrderMap(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	grouped := grouping.Build(active, items, orders)
	return s.present(ctx, grouped)
}

// present converts the engine output and swaps in current editor names.
func (s *service) present(ctx context.Context, grouped grouping.Result) (*ListResult, error) {
	emails := make([]string, 0, grouped.TotalCount)
	for _, g := range grouped.Groups {
		for _, item := range g.Items {
			emails = append(emails, item.UpdatedByEmail)
		}
	}
	names, err := s.names.CurrentNames(ctx, emails)
	if err != nil {
		return nil, err
	}

	out := &ListResult{Groups: make([]GroupDTO, 0, len(grouped.Groups)), TotalCount: grouped.TotalCount}
	for _, g := range grouped.Groups {
		dto := GroupDTO{Location: locations.FromModel(g.Location), Order: g.Order, Items: make([]ItemDTO, 0, len(g.Items))}
		for i := range g.Items {
			item := FromModel(&g.Items[i])
			item.UpdatedByName = users.DisplayName(names, item.UpdatedByEmail, item.UpdatedByName)
			dto.Items = append(dto.Items, *item)
		}
		out.Groups = append(out.Groups, dto)
	}
	return out, nil
}

// Get returns an active item or NotFound.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, itemNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	if !item.IsActive {
		return nil, itemNotFound()
	}
	return s.withCurrentName(ctx, FromModel(item))
}

func (s *service) Create(ctx context.Context, editor Editor, input CreateInput) (*ItemDTO, error) {
	if err := requireEditor(editor); err != nil {
		return nil, err
	}
	qty := defaultQty
	if input.Qty != nil {
		qty = *input.Qty
	}
	if err := validateQty(qty); err != nil {
		return nil, err
	}
	name := ""
	if input.Name != nil {
		name = *input.Name
	}
	if input.LocationID != nil {
		if err := s.requireActiveLocation(ctx, *input.LocationID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	userID := editor.UserID
	item := &models.InventoryItem{
		Name:            name,
		Qty:             qty,
		LocationID:      input.LocationID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
		UpdatedByUserID: &userID,
		UpdatedByName:   editor.Name,
		UpdatedByEmail:  editor.Email,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return FromModel(item), nil
}

func (s *service) UpdateName(ctx context.Context, editor Editor, id uuid.UUID, name string) (*ItemDTO, error) {
	return s.update(ctx, editor, id, map[string]any{"name": name})
}

func (s *service) UpdateQty(ctx context.Context, editor Editor, id uuid.UUID, qty int) (*ItemDTO, error) {
	if err := validateQty(qty); err != nil {
		return nil, err
	}
	return s.update(ctx, editor, id, map[string]any{"qty": qty})
}

// UpdateLocation moves an item to an active location, or clears it when locationID is nil.
func (s *service) UpdateLocation(ctx context.Context, editor Editor, id uuid.UUID, locationID *uuid.UUID) (*ItemDTO, error) {
	var value any
	if locationID != nil {
		if err := s.requireActiveLocation(ctx, *locationID); err != nil {
			return nil, err
		}
		value = *locationID
	}
	return s.update(ctx, editor, id, map[string]any{"location_id": value})
}

// Remove soft-deletes an item. Removing an inactive item is a no-op.
func (s *service) Remove(ctx context.Context, editor Editor, id uuid.UUID) error {
	if err := requireEditor(editor); err != nil {
		return err
	}
	affected, err := s.items.Deactivate(ctx, id, s.stamp(editor))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove inventory item")
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.items.FindByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return itemNotFound()
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return nil
}

func (s *service) update(ctx context.Context, editor Editor, id uuid.UUID, fields map[string]any) (*ItemDTO, error) {
	if err := requireEditor(editor); err != nil {
		return nil, err
	}
	affected, err := s.items.UpdateActive(ctx, id, fields, s.stamp(editor))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
	}
	if affected == 0 {
		return nil, itemNotFound()
	}
	return s.Get(ctx, id)
}

func (s *service) withCurrentName(ctx context.Context, item *ItemDTO) (*ItemDTO, error) {
	names, err := s.names.CurrentNames(ctx, []string{item.UpdatedByEmail})
	if err != nil {
		return nil, err
	}
	item.UpdatedByName = users.DisplayName(names, item.UpdatedByEmail, item.UpdatedByName)
	return item, nil
}

func (s *service) requireActiveLocation(ctx context.Context, id uuid.UUID) error {
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	if !location.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}
	return nil
}

func (s *service) stamp(editor Editor) Stamp {
	return Stamp{UserID: editor.UserID, Name: editor.Name, Email: editor.Email, At: s.now()}
}

func requireEditor(editor Editor) error {
	if editor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	return nil
}

func validateQty(qty int) error {
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a non-negative integer").
			WithDetails(map[string]string{"qty": "must be a non-negative integer"})
	}
	if !types.SafeInteger(qty) {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity is too large").
			WithDetails(map[string]string{"qty": fmt.Sprintf("must be at most %d", types.MaxSafeInteger)})
	}
	return nil
}

func itemNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}
