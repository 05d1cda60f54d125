package access

import (
	"time"

	"condo/internal/core"
)

type AdminStats struct {
	Properties      int `json:"properties"`
	Residents       int `json:"residents"`
	OpenRequests    int `json:"openRequests"`
	PendingPayments int `json:"pendingPayments"`
}

type ResidentStats struct {
	PendingPayments int                  `json:"pendingPayments"`
	OpenRequests    int                  `json:"openRequests"`
	PackagesAtGate  int                  `json:"packagesAtGate"`
	NextBooking     *core.AmenityBooking `json:"nextBooking"`
}

// Dashboard is the landing summary. Exactly one of Admin and Resident is
// set, depending on the role; guards get neither.
type Dashboard struct {
	Role          core.Role             `json:"role"`
	Admin         *AdminStats           `json:"admin,omitempty"`
	Resident      *ResidentStats        `json:"resident,omitempty"`
	Announcements []core.Announcement   `json:"announcements"`
	Bookings      []core.AmenityBooking `json:"upcomingBookings"`
}

func AdminDashboard(snap core.Snapshot) AdminStats {
	s := AdminStats{Properties: len(snap.Properties), Residents: len(snap.Owners)}
	for _, r := range snap.MaintenanceRequests {
		if r.Open() {
			s.OpenRequests++
		}
	}
	for _, t := range snap.Transactions {
		if t.Open() {
			s.PendingPayments++
		}
	}
	return s
}

// ResidentDashboard counts only the resident's own property, plus open
// common-area requests. Everything is zero when no property resolves.
func ResidentDashboard(snap core.Snapshot, id core.Identity, now time.Time) ResidentStats {
	var s ResidentStats
	prop, ok := ResolveProperty(snap, id)
	if !ok {
		return s
	}
	for _, t := range snap.Transactions {
		if t.PropertyID == prop.ID && t.Open() {
			s.PendingPayments++
		}
	}
	for _, r := range snap.MaintenanceRequests {
		if (r.PropertyID == prop.ID || core.IsCommonArea(r.PropertyID)) && r.Open() {
			s.OpenRequests++
		}
	}
	for _, p := range snap.Packages {
		if p.PropertyID == prop.ID && p.AtGate() {
			s.PackagesAtGate++
		}
	}
	for _, b := range snap.AmenityBookings {
		if b.PropertyID == prop.ID && core.OnOrAfterDay(b.Date, now) {
			booking := b
			s.NextBooking = &booking
			break
		}
	}
	return s
}

// BuildDashboard assembles the dashboard for id. Announcements are newest
// first; bookings are the visible ones from today on.
func BuildDashboard(snap core.Snapshot, id core.Identity, now time.Time) Dashboard {
	d := Dashboard{Role: id.Role}
	switch id.Role {
	case core.RoleAdmin:
		stats := AdminDashboard(snap)
		d.Admin = &stats
	case core.RoleResident:
		stats := ResidentDashboard(snap, id, now)
		d.Resident = &stats
	}

	d.Announcements = append([]core.Announcement(nil), snap.Announcements...)
	SortNewestFirst(d.Announcements, func(a core.Announcement) string { return a.Date })

	d.Bookings = []core.AmenityBooking{}
	for _, b := range VisibleAmenityBookings(snap, id) {
		if core.OnOrAfterDay(b.Date, now) {
			d.Bookings = append(d.Bookings, b)
		}
	}
	return d
}

// FinanceSummary gives the community totals to roles allowed to see them.
func FinanceSummary(snap core.Snapshot, r core.Role) (core.FinanceSummary, bool) {
	if !CanSeeFinanceTotals(r) {
		return core.FinanceSummary{}, false
	}
	return core.Summarize(snap.Transactions, snap.Expenses), true
}
