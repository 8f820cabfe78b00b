package component

import "time"

// SocialLink is one row of the social card.
type SocialLink struct {
	Name     string
	Href     string
	Handle   string
	Bio      string
	Platform string
}

// SocialList is the social card. Hovered is -1 when no row is under the
// pointer.
type SocialList struct {
	Links     []SocialLink
	Hovered   int
	HoveredAt time.Duration
	// ItemStagger delays each row's fade-in after the card is revealed.
	ItemStagger time.Duration
}

var SocialListComponent = NewComponent[SocialList]()
