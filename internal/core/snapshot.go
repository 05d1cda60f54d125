package core

import (
	"errors"
	"slices"
)

// SchemaVersion is written into every persisted snapshot. Snapshots with a
// different version are not loaded.
const SchemaVersion = 1

var ErrUnsupportedSchema = errors.New("unsupported snapshot schema version")

// Collection names as they appear in the persisted layout.
const (
	CollProperties      = "properties"
	CollOwners          = "owners"
	CollUsers           = "users"
	CollAnnouncements   = "announcements"
	CollTransactions    = "transactions"
	CollVisitors        = "visitors"
	CollMaintenance     = "maintenanceRequests"
	CollBookings        = "amenityBookings"
	CollExpenses        = "expenses"
	CollProviders       = "providers"
	CollMarketplace     = "marketplaceItems"
	CollLocalBusinesses = "localBusinesses"
	CollPackages        = "packages"
	CollPolls           = "polls"
)

// Snapshot is the whole community state. It is persisted as a single
// document and replaced as a unit.
type Snapshot struct {
	SchemaVersion       int                  `json:"schemaVersion"`
	Properties          []Property           `json:"properties"`
	Owners              []Owner              `json:"owners"`
	Users               []Identity           `json:"users"`
	Announcements       []Announcement       `json:"announcements"`
	Transactions        []Transaction        `json:"transactions"`
	Visitors            []Visitor            `json:"visitors"`
	MaintenanceRequests []MaintenanceRequest `json:"maintenanceRequests"`
	AmenityBookings     []AmenityBooking     `json:"amenityBookings"`
	Expenses            []Expense            `json:"expenses"`
	Providers           []Provider           `json:"providers"`
	MarketplaceItems    []MarketplaceItem    `json:"marketplaceItems"`
	LocalBusinesses     []LocalBusiness      `json:"localBusinesses"`
	Packages            []Package            `json:"packages"`
	Polls               []Poll               `json:"polls"`
}

// Check validates what a loaded snapshot must satisfy before it may
// replace the in-memory state.
func (s *Snapshot) Check() error {
	if s.SchemaVersion != SchemaVersion {
		return ErrUnsupportedSchema
	}
	return nil
}

// Normalize replaces nil collections with empty ones so the encoded form
// always carries every array.
func (s *Snapshot) Normalize() {
	if s.SchemaVersion == 0 {
		s.SchemaVersion = SchemaVersion
	}
	s.Properties = nonNil(s.Properties)
	s.Owners = nonNil(s.Owners)
	s.Users = nonNil(s.Users)
	s.Announcements = nonNil(s.Announcements)
	s.Transactions = nonNil(s.Transactions)
	s.Visitors = nonNil(s.Visitors)
	s.MaintenanceRequests = nonNil(s.MaintenanceRequests)
	s.AmenityBookings = nonNil(s.AmenityBookings)
	s.Expenses = nonNil(s.Expenses)
	s.Providers = nonNil(s.Providers)
	s.MarketplaceItems = nonNil(s.MarketplaceItems)
	s.LocalBusinesses = nonNil(s.LocalBusinesses)
	s.Packages = nonNil(s.Packages)
	s.Polls = nonNil(s.Polls)
}

// Clone returns a copy that shares no slices with s. Optional *string
// fields are shared; they are only ever replaced, never written through.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Properties = make([]Property, len(s.Properties))
	for i, p := range s.Properties {
		p.OccupationHistory = slices.Clone(p.OccupationHistory)
		p.Documents = slices.Clone(p.Documents)
		c.Properties[i] = p
	}
	c.Owners = make([]Owner, len(s.Owners))
	for i, o := range s.Owners {
		o.FamilyMembers = slices.Clone(o.FamilyMembers)
		o.Vehicles = slices.Clone(o.Vehicles)
		o.Pets = slices.Clone(o.Pets)
		c.Owners[i] = o
	}
	c.Polls = make([]Poll, len(s.Polls))
	for i, p := range s.Polls {
		p.Options = slices.Clone(p.Options)
		p.VotedBy = slices.Clone(p.VotedBy)
		c.Polls[i] = p
	}
	c.Users = slices.Clone(s.Users)
	c.Announcements = slices.Clone(s.Announcements)
	c.Transactions = slices.Clone(s.Transactions)
	c.Visitors = slices.Clone(s.Visitors)
	c.MaintenanceRequests = slices.Clone(s.MaintenanceRequests)
	c.AmenityBookings = slices.Clone(s.AmenityBookings)
	c.Expenses = slices.Clone(s.Expenses)
	c.Providers = slices.Clone(s.Providers)
	c.MarketplaceItems = slices.Clone(s.MarketplaceItems)
	c.LocalBusinesses = slices.Clone(s.LocalBusinesses)
	c.Packages = slices.Clone(s.Packages)
	c.Normalize()
	return c
}

// Poll returns a pointer into s for in-place tallying.
func (s *Snapshot) Poll(id string) (*Poll, bool) {
	for i := range s.Polls {
		if s.Polls[i].ID == id {
			return &s.Polls[i], true
		}
	}
	return nil, false
}

func (s Snapshot) Property(id string) (Property, bool) {
	for _, p := range s.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

func (s Snapshot) Owner(id string) (Owner, bool) {
	for _, o := range s.Owners {
		if o.ID == id {
			return o, true
		}
	}
	return Owner{}, false
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
