package grouping

import (
	"sort"
	"strings"

	"github.com/angelmondragon/crewstock-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Group pairs a location, or nil for "No location", with its items.
type Group struct {
	Location *models.Location
	Order    *int
	Items    []models.InventoryItem
}

// Result is the grouped projection of the inventory for one user.
type Result struct {
	Groups     []Group
	TotalCount int
}

// Build groups active items under active locations and sorts both using the
// caller's order preferences. The "No location" group is always first and
// every active location is present even when it holds no items.
func Build(locations []models.Location, items []models.InventoryItem, orders map[uuid.UUID]int) Result {
	unassigned := Group{Items: []models.InventoryItem{}}

	byID := make(map[uuid.UUID]*Group, len(locations))
	located := make([]*Group, 0, len(locations))
	for i := range locations {
		loc := locations[i]
		if !loc.IsActive {
			continue
		}
		if _, dup := byID[loc.ID]; dup {
			continue
		}
		g := &Group{Location: &loc, Items: []models.InventoryItem{}}
		if order, ok := orders[loc.ID]; ok {
			o := order
			g.Order = &o
		}
		byID[loc.ID] = g
		located = append(located, g)
	}

	total := 0
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		total++
		if item.LocationID != nil {
			if g, ok := byID[*item.LocationID]; ok {
				g.Items = append(g.Items, item)
				continue
			}
		}
		unassigned.Items = append(unassigned.Items, item)
	}

	sortItems(unassigned.Items)
	for _, g := range located {
		sortItems(g.Items)
	}
	sort.SliceStable(located, func(i, j int) bool {
		return lessGroup(located[i], located[j])
	})

	groups := make([]Group, 0, len(located)+1)
	groups = append(groups, unassigned)
	for _, g := range located {
		groups = append(groups, *g)
	}
	return Result{Groups: groups, TotalCount: total}
}

func sortItems(items []models.InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].ID.String() < items[j].ID.String()
	})
}

// lessGroup puts ordered locations ahead of unordered ones as a set.
func lessGroup(a, b *Group) bool {
	switch {
	case a.Order != nil && b.Order != nil:
		if *a.Order != *b.Order {
			return *a.Order < *b.Order
		}
	case a.Order != nil:
		return true
	case b.Order != nil:
		return false
	}
	an, bn := strings.ToLower(a.Location.Name), strings.ToLower(b.Location.Name)
	if an != bn {
		return an < bn
	}
	return a.Location.ID.String() < b.Location.ID.String()
}

// SortLocationsByName orders locations by case-insensitive name, then id.
func SortLocationsByName(locations []models.Location) {
	sort.SliceStable(locations, func(i, j int) bool {
		a, b := strings.ToLower(locations[i].Name), strings.ToLower(locations[j].Name)
		if a != b {
			return a < b
		}
		return locations[i].ID.String() < locations[j].ID.String()
	})
}
