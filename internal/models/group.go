package models

// Member is a user as seen from inside a group.
// The core treats members as immutable input keyed by ID.
type Member struct {
	// ID is the user ID; stable and unique across groups.
	ID string

	// DisplayName is the name shown in balances and debts.
	DisplayName string
}

// Group is a set of members who share expenditures.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski trip").
	Name string

	// Image is an optional picture URL; empty when unset.
	Image string

	// Members is the membership list in join order.
	Members []Member

	// Expenditures is the group's spending, oldest first.
	// Only populated when the group is loaded as a full snapshot.
	Expenditures []Expenditure

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	return g.Member(userID) != nil
}

// Member returns the member with the given ID, or nil.
func (g *Group) Member(userID string) *Member {
	for i := range g.Members {
		if g.Members[i].ID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// MemberIDs returns the IDs of all members in join order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
