// Package routing turns a raw issue description into a canonical category
// and maps that category to the responsible municipal department. Both
// stages are pure table lookups: same input, same output, no I/O.
package routing

import "strings"

// Canonical issue categories.
const (
	CategoryGarbage     = "Garbage"
	CategoryRoad        = "Road"
	CategoryWater       = "Water"
	CategoryStreetlight = "Streetlight"
	CategoryGeneral     = "General"
)

// Department identifiers. The catalog is fixed; complaints for unknown
// categories stay unassigned rather than erroring.
const (
	DeptSanitation  = "Sanitation"
	DeptPublicWorks = "PublicWorks"
	DeptWaterBoard  = "WaterBoard"
	DeptElectricity = "Electricity"
	DeptMunicipal   = "Municipal"
)

// Ordered: earlier keywords win, so "streetlight" is checked before the
// generic "street", keeping classification deterministic.
var classificationKeywords = []struct {
	keyword  string
	category string
}{
	{"streetlight", CategoryStreetlight},
	{"light", CategoryStreetlight},
	{"lamp", CategoryStreetlight},
	{"dark", CategoryStreetlight},

	{"garbage", CategoryGarbage},
	{"trash", CategoryGarbage},
	{"waste", CategoryGarbage},
	{"rubbish", CategoryGarbage},
	{"dustbin", CategoryGarbage},

	{"road", CategoryRoad},
	{"pothole", CategoryRoad},
	{"street", CategoryRoad},
	{"asphalt", CategoryRoad},

	{"water", CategoryWater},
	{"leak", CategoryWater},
	{"pipe", CategoryWater},
	{"drainage", CategoryWater},
}

var departmentByCategory = map[string]string{
	CategoryGarbage:     DeptSanitation,
	CategoryRoad:        DeptPublicWorks,
	CategoryWater:       DeptWaterBoard,
	CategoryStreetlight: DeptElectricity,
	CategoryGeneral:     DeptMunicipal,
}

// Classify normalizes a raw issue type into a canonical category.
// Matching is case-insensitive and accepts substrings ("paani pipe
// leakage" -> Water). Empty or unmatched input maps to General.
func Classify(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return CategoryGeneral
	}

	for _, cat := range []string{CategoryGarbage, CategoryRoad, CategoryWater, CategoryStreetlight, CategoryGeneral} {
		if strings.ToLower(cat) == key {
			return cat
		}
	}

	for _, entry := range classificationKeywords {
		if strings.Contains(key, entry.keyword) {
			return entry.category
		}
	}
	return CategoryGeneral
}

// Route returns the department responsible for a canonical category, or
// nil when the category is outside the catalog. The decision is computed
// once at complaint creation and never recomputed.
func Route(category string) *string {
	if dept, ok := departmentByCategory[category]; ok {
		return &dept
	}
	return nil
}
