package component

// Profile is the static card content shown above the stats.
type Profile struct {
	Name   string
	Handle string
	Bio    string
	Avatar string
}

var ProfileComponent = NewComponent[Profile]()

// Stat is one numeric entry under the profile. Index orders the cascade.
type Stat struct {
	Index int
	Value string
	Label string
}

var StatComponent = NewComponent[Stat]()

// NameTag marks the entity that reveals the display name.
type NameTag struct{}

var NameTagComponent = NewComponent[NameTag]()
