package stations

import (
	"sort"

	"github.com/ngmaloney/tidepool-terminal/internal/geo"
	"github.com/ngmaloney/tidepool-terminal/internal/models"
)

// DefaultLimit is the number of stations offered when none is configured
const DefaultLimit = 5

// Match is a candidate station ranked by distance from the user
type Match struct {
	Station       models.Station `json:"station"`
	DistanceMiles float64        `json:"distance_miles"`
}

// Nearest ranks candidates by great-circle distance from user and returns the
// closest limit of them. Stations at equal distance keep their input order.
// The result is never nil; a non-positive limit yields no matches.
func Nearest(user models.Coordinate, candidates []models.Station, limit int) []Match {
	if limit <= 0 || len(candidates) == 0 {
		return []Match{}
	}

	matches := make([]Match, len(candidates))
	for i, s := range candidates {
		matches[i] = Match{
			Station:       s,
			DistanceMiles: geo.Distance(user, s.Location),
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceMiles < matches[j].DistanceMiles
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
