package scenario

import (
	"embed"
	"fmt"
)

//go:embed catalogs/*.yaml
var catalogs embed.FS

// BuiltIn returns the scenario catalog shipped for a theme id.
func BuiltIn(themeID string) (*Catalog, error) {
	b, err := catalogs.ReadFile("catalogs/" + themeID + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in catalog for theme %q: %w", themeID, err)
	}
	return Parse(b)
}
