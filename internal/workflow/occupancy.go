package workflow

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
)

// Occupancy splits tables with an open order into two disjoint sets.
type Occupancy struct {
	Active map[uuid.UUID]struct{}
	Served map[uuid.UUID]struct{}
}

// DeriveOccupancy recomputes occupancy from the open orders. A table that
// somehow carries both an active and a served order counts as served.
func DeriveOccupancy(orders []domain.Order) Occupancy {
	occ := Occupancy{Active: map[uuid.UUID]struct{}{}, Served: map[uuid.UUID]struct{}{}}
	for _, o := range orders {
		switch o.Status {
		case domain.StatusServed:
			occ.Served[o.Table.ID] = struct{}{}
		case domain.StatusActive:
			occ.Active[o.Table.ID] = struct{}{}
		}
	}
	for id := range occ.Served {
		delete(occ.Active, id)
	}
	return occ
}

func (o Occupancy) StatusOf(tableID uuid.UUID) domain.TableStatus {
	if _, ok := o.Served[tableID]; ok {
		return domain.TableServed
	}
	if _, ok := o.Active[tableID]; ok {
		return domain.TableActive
	}
	return domain.TableAvailable
}

func (o Occupancy) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Active []string `json:"active"`
		Served []string `json:"served"`
	}{Active: sortedIDs(o.Active), Served: sortedIDs(o.Served)})
}

func sortedIDs(set map[uuid.UUID]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id.String())
	}
	sort.Strings(out)
	return out
}
