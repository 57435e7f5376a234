// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"fmt"
	"sort"

	"github.com/juju/collections/set"
)

// Settings holds the key/value data held in one side of a relation.
type Settings map[string]string

// Relation is a view of a single established relation, as seen from the
// local application.
type Relation interface {
	// ID returns the integer id of the relation.
	ID() int

	// Endpoint returns the name of the local endpoint the relation is
	// established on.
	Endpoint() string

	// RemoteApplication returns the name of the related application.
	RemoteApplication() (string, error)

	// ApplicationSettings returns the data published by the remote
	// application.
	ApplicationSettings() (Settings, error)

	// Units returns the names of the remote units participating in the
	// relation.
	Units() ([]string, error)

	// UnitSettings returns the data published by the named remote unit.
	UnitSettings(unitName string) (Settings, error)

	// SetApplicationSettings writes the given keys into the local
	// application's data for this relation. Only the leader may call it.
	SetApplicationSettings(Settings) error
}

// Tag returns the "endpoint:id" form used by the Juju hook tools to
// identify a relation.
func Tag(r Relation) string {
	return fmt.Sprintf("%s:%d", r.Endpoint(), r.ID())
}

// SortByID returns a copy of the relations ordered by ascending id.
func SortByID(relations []Relation) []Relation {
	sorted := make([]Relation, len(relations))
	copy(sorted, relations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID() < sorted[j].ID()
	})
	return sorted
}

// Exclude returns the relations whose ids are not in the given list.
func Exclude(relations []Relation, ids ...int) []Relation {
	if len(ids) == 0 {
		return relations
	}
	excluded := set.NewInts(ids...)
	var result []Relation
	for _, r := range relations {
		if excluded.Contains(r.ID()) {
			continue
		}
		result = append(result, r)
	}
	return result
}
