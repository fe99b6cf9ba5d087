package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	"github.com/angelmondragon/crewstock-backend/internal/users"
	"github.com/angelmondragon/crewstock-backend/pkg/db/dbtest"
	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
)

type fixture struct {
	svc       Service
	items     Repository
	locations locations.Service
	orders    locationorders.Service
	users     users.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()

	locRepo := locations.NewRepository(conn)
	locSvc, err := locations.NewService(locRepo)
	require.NoError(t, err)
	orderSvc, err := locationorders.NewService(locationorders.ServiceParams{
		Orders:    locationorders.NewRepository(conn),
		Locations: locRepo,
		Tx:        client,
	})
	require.NoError(t, err)
	userRepo := users.NewRepository(conn)
	userSvc, err := users.NewService(userRepo)
	require.NoError(t, err)
	names, err := users.NewNameResolver(userRepo)
	require.NoError(t, err)

	items := NewRepository(conn)
	svc, err := NewService(ServiceParams{Items: items, Locations: locRepo, Orders: orderSvc, Names: names})
	require.NoError(t, err)
	return fixture{svc: svc, items: items, locations: locSvc, orders: orderSvc, users: userSvc}
}

func (f fixture) editor(t *testing.T, email, name string) Editor {
	t.Helper()
	user, err := f.users.GetOrCreate(context.Background(), users.Profile{Email: email, Name: name})
	require.NoError(t, err)
	return Editor{UserID: user.ID, Email: user.Email, Name: user.Name}
}

func (f fixture) location(t *testing.T, name string) *models.Location {
	t.Helper()
	loc, err := f.locations.Create(context.Background(), name)
	require.NoError(t, err)
	return loc
}

func (f fixture) create(t *testing.T, ed Editor, name string, loc *models.Location) *ItemDTO {
	t.Helper()
	input := CreateInput{Name: &name}
	if loc != nil {
		id := loc.ID
		input.LocationID = &id
	}
	item, err := f.svc.Create(context.Background(), ed, input)
	require.NoError(t, err)
	return item
}

func groupLabels(res *ListResult) []string {
	out := make([]string, 0, len(res.Groups))
	for _, g := range res.Groups {
		if g.Location == nil {
			out = append(out, "<none>")
			continue
		}
		out = append(out, g.Location.Name)
	}
	return out
}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")

	item, err := f.svc.Create(context.Background(), ed, CreateInput{})
	require.NoError(t, err)
	assert.Equal(t, "", item.Name)
	assert.Equal(t, 1, item.Qty)
	assert.Nil(t, item.LocationID)
	assert.Equal(t, "Ana", item.UpdatedByName)
	assert.Equal(t, "a@crew.test", item.UpdatedByEmail)
	require.NotNil(t, item.UpdatedByUserID)
	assert.Equal(t, ed.UserID, *item.UpdatedByUserID)
}

func TestCreateKeepsNameAsGiven(t *testing.T) {
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")

	item := f.create(t, ed, " 4x4 floppy ", nil)
	assert.Equal(t, " 4x4 floppy ", item.Name)

	stored, err := f.items.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, " 4x4 floppy ", stored.Name)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")

	negative := -1
	_, err := f.svc.Create(ctx, ed, CreateInput{Qty: &negative})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := uuid.New()
	_, err = f.svc.Create(ctx, ed, CreateInput{LocationID: &missing})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.Create(ctx, Editor{}, CreateInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}

func TestListScenarioWithOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")
	a, b, c := f.location(t, "A"), f.location(t, "B"), f.location(t, "C")

	f.create(t, ed, "x", a)
	f.create(t, ed, "y", b)
	f.create(t, ed, "z", nil)
	f.create(t, ed, "w", c)

	_, err := f.orders.Upsert(ctx, ed.UserID, a.ID, 2)
	require.NoError(t, err)
	_, err = f.orders.Upsert(ctx, ed.UserID, b.ID, 1)
	require.NoError(t, err)

	res, err := f.svc.List(ctx, ListParams{UserID: ed.UserID})
	require.NoError(t, err)
	assert.Equal(t, []string{"<none>", "B", "A", "C"}, groupLabels(res))
	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, "z", res.Groups[0].Items[0].Name)

	other := f.editor(t, "b@crew.test", "Ben")
	theirs, err := f.svc.List(ctx, ListParams{UserID: other.UserID})
	require.NoError(t, err)
	assert.Equal(t, []string{"<none>", "A", "B", "C"}, groupLabels(theirs), "orders are per user")
}

func TestListEmptyInventory(t *testing.T) {
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")
	f.location(t, "Shelf")
	f.location(t, "attic")

	res, err := f.svc.List(context.Background(), ListParams{UserID: ed.UserID})
	require.NoError(t, err)
	assert.Equal(t, []string{"<none>", "attic", "Shelf"}, groupLabels(res))
	assert.Zero(t, res.TotalCount)
	for _, g := range res.Groups {
		assert.NotNil(t, g.Items)
		assert.Empty(t, g.Items)
	}
}

func TestListSearchAndLocationFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")
	truck := f.location(t, "Truck")

	f.create(t, ed, "Gaffer Tape", truck)
	f.create(t, ed, "duct tape", nil)
	f.create(t, ed, "C-stand", truck)
	f.create(t, ed, "100%_cotton", nil)

	res, err := f.svc.List(ctx, ListParams{UserID: ed.UserID, Filter: Filter{Search: "TAPE"}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)

	res, err = f.svc.List(ctx, ListParams{UserID: ed.UserID, Filter: Filter{Search: "%"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount, "wildcards are matched literally")

	none, err := ParseLocationFilter("none")
	require.NoError(t, err)
	res, err = f.svc.List(ctx, ListParams{UserID: ed.UserID, Filter: Filter{Location: none}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)
	assert.Len(t, res.Groups[0].Items, 2)

	one, err := ParseLocationFilter(truck.ID.String())
	require.NoError(t, err)
	res, err = f.svc.List(ctx, ListParams{UserID: ed.UserID, Filter: Filter{Search: "stand", Location: one}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "C-stand", res.Groups[1].Items[0].Name)
}

func TestListFallsBackForRemovedLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")
	van := f.location(t, "Van")
	f.create(t, ed, "ladder", van)
	require.NoError(t, f.locations.Remove(ctx, van.ID))

	res, err := f.svc.List(ctx, ListParams{UserID: ed.UserID})
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	require.Len(t, res.Groups[0].Items, 1)
	assert.Equal(t, "ladder", res.Groups[0].Items[0].Name)
}

func TestListResolvesCurrentEditorNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")
	f.create(t, ed, "gel", nil)

	_, err := f.users.UpdateName(ctx, ed.UserID, "Anastasia")
	require.NoError(t, err)

	ghost := Editor{UserID: uuid.New(), Email: "ghost@crew.test", Name: "Ghost"}
	f.create(t, ghost, "flag", nil)

	res, err := f.svc.List(ctx, ListParams{UserID: ed.UserID})
	require.NoError(t, err)
	byName := map[string]string{}
	for _, item := range res.Groups[0].Items {
		byName[item.Name] = item.UpdatedByName
	}
	assert.Equal(t, "Anastasia", byName["gel"])
	assert.Equal(t, "Ghost", byName["flag"], "unknown editors keep the stored name")
}

func TestUpdatesStampEditor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.editor(t, "a@crew.test", "Ana")
	ben := f.editor(t, "b@crew.test", "Ben")
	shelf := f.location(t, "Shelf")
	item := f.create(t, ana, "sandbag", nil)

	updated, err := f.svc.UpdateName(ctx, ben, item.ID, "  Sandbag ")
	require.NoError(t, err)
	assert.Equal(t, "  Sandbag ", updated.Name, "names are stored as given")
	assert.Equal(t, "Ben", updated.UpdatedByName)
	assert.Equal(t, "b@crew.test", updated.UpdatedByEmail)

	updated, err = f.svc.UpdateQty(ctx, ana, item.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Qty)
	assert.Equal(t, "Ana", updated.UpdatedByName)

	_, err = f.svc.UpdateQty(ctx, ana, item.ID, -2)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	updated, err = f.svc.UpdateQty(ctx, ana, item.ID, 3_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, 3_000_000_000, updated.Qty)

	_, err = f.svc.UpdateQty(ctx, ana, item.ID, 1<<53)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	updated, err = f.svc.UpdateLocation(ctx, ana, item.ID, &shelf.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LocationID)
	assert.Equal(t, shelf.ID, *updated.LocationID)

	updated, err = f.svc.UpdateLocation(ctx, ana, item.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.LocationID)

	require.NoError(t, f.locations.Remove(ctx, shelf.ID))
	_, err = f.svc.UpdateLocation(ctx, ana, item.ID, &shelf.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.editor(t, "a@crew.test", "Ana")
	ben := f.editor(t, "b@crew.test", "Ben")
	item := f.create(t, ana, "apple box", nil)

	require.NoError(t, f.svc.Remove(ctx, ben, item.ID))
	require.NoError(t, f.svc.Remove(ctx, ana, item.ID))

	stored, err := f.items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "b@crew.test", stored.UpdatedByEmail, "no-op remove leaves the stamp alone")

	_, err = f.svc.Get(ctx, item.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = f.svc.UpdateQty(ctx, ana, item.ID, 3)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	err = f.svc.Remove(ctx, ana, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestParseLocationFilter(t *testing.T) {
	f, err := ParseLocationFilter("")
	require.NoError(t, err)
	assert.Equal(t, LocationAll, f.Mode)

	f, err = ParseLocationFilter(" ALL ")
	require.NoError(t, err)
	assert.Equal(t, LocationAll, f.Mode)

	id := uuid.New()
	f, err = ParseLocationFilter(id.String())
	require.NoError(t, err)
	assert.Equal(t, LocationOne, f.Mode)
	assert.Equal(t, id, f.ID)

	_, err = ParseLocationFilter("garage")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListSearchFoldsNonASCII(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ed := f.editor(t, "a@crew.test", "Ana")
	f.create(t, ed, "Éclair Light", nil)
	f.create(t, ed, "Straßenschild", nil)
	f.create(t, ed, "sandbag", nil)

	for search, want := range map[string]int{
		"éclair":  1,
		"ÉCLAIR":  1,
		"light":   1,
		"STRASSE": 1,
		"a":       3,
	} {
		res, err := f.svc.List(ctx, ListParams{UserID: ed.UserID, Filter: Filter{Search: search}})
		require.NoError(t, err)
		assert.Equal(t, want, res.TotalCount, "search %q", search)
	}
}
