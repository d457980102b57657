package theme

import "strings"

type Theme string

const (
	Dark    Theme = "dark"
	Light   Theme = "light"
	Tachyon Theme = "tachyon"

	Default = Dark
)

// Themes lists the selectable themes in display order.
func Themes() []Theme {
	return []Theme{Dark, Light, Tachyon}
}

// Parse returns the theme named by v, or Default when v is not recognized.
func Parse(v string) (Theme, bool) {
	switch t := Theme(strings.TrimSpace(v)); t {
	case Dark, Light, Tachyon:
		return t, true
	}
	return Default, false
}

func (t Theme) Next() Theme {
	all := Themes()
	for i, th := range all {
		if th == t {
			return all[(i+1)%len(all)]
		}
	}
	return Default
}

func (t Theme) String() string {
	return string(t)
}

// Store is the persistence side of a Preference.
type Store interface {
	LoadTheme() Theme
	SaveTheme(Theme)
}

// Preference holds the active theme. It is seeded from the store once.
type Preference struct {
	store   Store
	current Theme
}

func NewPreference(store Store) *Preference {
	return &Preference{store: store, current: store.LoadTheme()}
}

func (p *Preference) Get() Theme {
	return p.current
}

func (p *Preference) Set(t Theme) {
	p.current = t
	p.store.SaveTheme(t)
}

// Cycle switches to the next theme and returns it.
func (p *Preference) Cycle() Theme {
	p.Set(p.current.Next())
	return p.current
}
