// Package entity defines the core business entities for the domain layer.
package entity

// Community represents a residential community administered by the portal.
type Community struct {
	ID       string
	Name     string
	Timezone string // IANA name used to decide what "today" is for the community
}

// Resident represents a resident (unit owner or tenant) of a community.
type Resident struct {
	ID          string
	CommunityID string
	Name        string
	Unit        string
	Email       string
	Active      bool
}

// ConfigEntry is a single keyed configuration value of a community.
type ConfigEntry struct {
	CommunityID string
	Key         string
	Value       string
}
