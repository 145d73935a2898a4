// internal/app/system/icons/icons.go
package icons

// Canonical subject icon identifiers.
//
// These values are stored in the database in the Subject.Icon field and are
// used by clients as stable keys for rendering. There is no runtime
// name-based resolution; an unknown key is rejected at the boundary.
const (
	IconAtom       = "atom"
	IconBookOpen   = "book-open"
	IconCalculator = "calculator"
	IconFlask      = "flask-conical"
	IconGlobe      = "globe"
	IconLandmark   = "landmark"
	IconLaptop     = "laptop"
	IconMicroscope = "microscope"
	IconMusic      = "music"
	IconPalette    = "palette"
	IconPenTool    = "pen-tool"
	IconUsers      = "users"
)

// Keys is the full set of allowed icon identifiers.
//
// This slice should be treated as the single source of truth for validation.
// Any new icon must be added here to be considered valid.
var Keys = []string{
	IconAtom,
	IconBookOpen,
	IconCalculator,
	IconFlask,
	IconGlobe,
	IconLandmark,
	IconLaptop,
	IconMicroscope,
	IconMusic,
	IconPalette,
	IconPenTool,
	IconUsers,
}

// DefaultIcon is used when no icon is provided.
const DefaultIcon = IconBookOpen

var keySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keys))
	for _, k := range Keys {
		m[k] = struct{}{}
	}
	return m
}()

// Valid reports whether key is a known icon identifier.
func Valid(key string) bool {
	_, ok := keySet[key]
	return ok
}
