package availability

import (
	"slices"

	"github.com/metropolia/infoscreen/internal/models"
)

// BuildMetadata lists the sorted distinct floors, buildings, wings and
// details of rooms together with the detail group names
func BuildMetadata(rooms []*models.Room) models.RoomMetadata {
	var floors, buildings, wings, details []string
	for _, room := range rooms {
		floors = append(floors, room.Floor)
		buildings = append(buildings, room.Building)
		wings = append(wings, room.Wing)
		details = append(details, room.Details)
	}

	return models.RoomMetadata{
		Floors:        distinct(floors),
		Buildings:     distinct(buildings),
		Wings:         distinct(wings),
		Details:       distinct(details),
		DetailsGroups: DetailGroupNames(),
	}
}

// distinct returns the sorted unique non-empty values
func distinct(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
