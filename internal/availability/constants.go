package availability

// AllFloors is the floor filter value that disables floor filtering
const AllFloors = "All Floors"

// floorColorCodes are the wayfinding colors painted on each floor
var floorColorCodes = map[string]string{
	"7": "#74B0F9",
	"6": "#D70580",
	"5": "#FA6707",
	"4": "#0E7C7B",
	"3": "#D6D6D6",
	"2": "#F8DC0E",
	"1": "#FFFFFF",
	"0": "#FFFFFF",
}

// DetailGroup maps a coarse category name to the raw detail labels it covers
type DetailGroup struct {
	Name    string
	Details []string
}

// detailGroups is ordered; metadata lists the group names in this order
var detailGroups = []DetailGroup{
	{Name: "work", Details: []string{"Työtila", "Henkilöstön työtila"}},
	{Name: "studyspace", Details: []string{"Oppimistila", "Avoin oppimistila", "Digitila"}},
	{Name: "groupwork", Details: []string{"Ryhmätyötila", "Yhteistyötila"}},
	{Name: "other", Details: []string{
		"Aula",
		"Karamalmin kampuksen pääaula",
		"Smart IoT -laboratorio",
		"VR/AR -laboratorio",
		"Medialaboratorio",
		"Hissiaula",
		"Testikeskus",
		"Varasto/medialaboratorio",
		"Taltiointitila",
		"METKA",
		"Opiskelijoiden tila",
		"Tarkkaamo",
	}},
}

// FloorColorCode returns the color of a floor, or nil for unknown floors
func FloorColorCode(floor string) *string {
	color, ok := floorColorCodes[floor]
	if !ok {
		return nil
	}
	return &color
}

// DetailGroups returns a copy of the detail group table
func DetailGroups() []DetailGroup {
	groups := make([]DetailGroup, len(detailGroups))
	for i, g := range detailGroups {
		groups[i] = DetailGroup{Name: g.Name, Details: append([]string(nil), g.Details...)}
	}
	return groups
}

// DetailGroupNames lists the group names in table order
func DetailGroupNames() []string {
	names := make([]string, len(detailGroups))
	for i, g := range detailGroups {
		names[i] = g.Name
	}
	return names
}

func groupDetails(name string) ([]string, bool) {
	for _, g := range detailGroups {
		if g.Name == name {
			return g.Details, true
		}
	}
	return nil, false
}
