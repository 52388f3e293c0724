package rules

import (
	"fmt"
	"sort"
)

const (
	DefaultProfile = "worldcat"
	DefaultMarker  = ".vernacular"
)

var arabicScript = FontStack{"Scheherazade New", "Amiri"}

// Profile is everything the adjuster needs for one catalog site.
type Profile struct {
	Name          string
	Containers    []string
	ContainerFont FontStack
	Marker        string
	Table         Table
	Match         []string
}

var profiles = map[string]Profile{
	"worldcat": {
		Name:          "worldcat",
		Containers:    []string{"bibdata", "details"},
		ContainerFont: FontStack{"Gentium Plus"},
		Marker:        DefaultMarker,
		Table: Table{
			Default: Rule{Dir: DirAuto},
			Overrides: []Rule{
				{Lang: "ar", Dir: DirRTL, Font: arabicScript},
				{Lang: "fa", Dir: DirRTL, Font: arabicScript},
			},
		},
		Match: []string{"https://www.worldcat.org/*"},
	},
	"worldcat-jquery": {
		Name:          "worldcat-jquery",
		Containers:    []string{"bibdata", "details"},
		ContainerFont: FontStack{"Charis SIL"},
		Marker:        DefaultMarker,
		Table: Table{
			Default: Rule{Dir: DirAuto},
			Overrides: []Rule{
				{Lang: "ar", Dir: DirRTL, Font: arabicScript},
			},
		},
		Match: []string{"https://www.worldcat.org/*"},
	},
}

// ProfileByName returns a copy of a built-in profile.
func ProfileByName(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}

	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (known: %v)", name, ProfileNames())
	}

	p.Containers = append([]string(nil), p.Containers...)
	p.ContainerFont = append(FontStack(nil), p.ContainerFont...)
	p.Match = append([]string(nil), p.Match...)
	p.Table = p.Table.With()

	return p, nil
}

func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}
