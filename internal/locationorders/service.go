package locationorders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crewstock-backend/internal/grouping"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

// Service defines the per-user location ordering operations.
type Service interface {
	Upsert(ctx context.Context, userID, locationID uuid.UUID, order int) (uuid.UUID, error)
	Remove(ctx context.Context, userID, locationID uuid.UUID) error
	BatchReplace(ctx context.Context, userID uuid.UUID, locationIDs []uuid.UUID) error
	ApplyReorder(ctx context.Context, userID uuid.UUID, locationIDs []uuid.UUID) error
	OrderMap(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error)
	ListLocationsWithOrders(ctx context.Context, userID uuid.UUID) ([]LocationWithOrder, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups the collaborators of the ordering service.
type ServiceParams struct {
	Orders    Repository
	Locations locations.Repository
	Tx        txRunner
}

type service struct {
	orders    Repository
	locations locations.Repository
	tx        txRunner
	now       func() time.Time
}

// NewService wires ordering dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "location orders repository required")
	}
	if params.Locations == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "locations repository required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	return &service{
		orders:    params.Orders,
		locations: params.Locations,
		tx:        params.Tx,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Upsert sets the caller's order for an active location and returns the record id.
func (s *service) Upsert(ctx context.Context, userID, locationID uuid.UUID, order int) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if !types.SafeInteger(order) {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order is out of range").
			WithDetails(map[string]string{"order": fmt.Sprintf("must be between %d and %d", types.MinSafeInteger, types.MaxSafeInteger)})
	}
	location, err := s.locations.FindByID(ctx, locationID)
	if err != nil {
		if db.IsNotFound(err) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	if !location.IsActive {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
	}

	id, err := s.orders.Upsert(ctx, userID, locationID, order, s.now())
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert location order")
	}
	return id, nil
}

// Remove clears the caller's order for a location. Missing rows are not an error.
func (s *service) Remove(ctx context.Context, userID, locationID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if err := s.orders.Delete(ctx, userID, locationID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove location order")
	}
	return nil
}

// BatchReplace assigns order i to the location at position i. Locations not
// in the list keep their rows. Ids with no location row at all are skipped;
// soft-deleted locations are still written. The whole batch commits or none of it does.
func (s *service) BatchReplace(ctx context.Context, userID uuid.UUID, locationIDs []uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user required")
	}
	if len(locationIDs) == 0 {
		return nil
	}

	now := s.now()
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		known, err := s.locations.WithTx(tx).ExistingIDs(ctx, locationIDs)
		if err != nil {
			return err
		}
		orders := s.orders.WithTx(tx)
		for position, locationID := range locationIDs {
			if _, ok := known[locationID]; !ok {
				continue
			}
			if _, err := orders.Upsert(ctx, userID, locationID, position, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace location orders")
	}
	return nil
}

func (s *service) ApplyReorder(ctx context.Context, userID uuid.UUID, locationIDs []uuid.UUID) error {
	return s.BatchReplace(ctx, userID, locationIDs)
}

// OrderMap returns the caller's explicit orders keyed by location id.
func (s *service) OrderMap(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list location orders")
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.LocationID] = row.SortOrder
	}
	return out, nil
}

// ListLocationsWithOrders returns every active location by name with the caller's order.
func (s *service) ListLocationsWithOrders(ctx context.Context, userID uuid.UUID) ([]LocationWithOrder, error) {
	active, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	orders, err := s.OrderMap(ctx, userID)
	if err != nil {
		return nil, err
	}
	grouping.SortLocationsByName(active)

	out := make([]LocationWithOrder, 0, len(active))
	for i := range active {
		entry := LocationWithOrder{Location: *locations.FromModel(&active[i])}
		if order, ok := orders[active[i].ID]; ok {
			o := order
			entry.Order = &o
		}
		out = append(out, entry)
	}
	return out, nil
}
