// Package access decides what an identity may see and do. Every function
// is pure: it reads a snapshot and never changes it.
package access

import (
	"slices"
	"time"

	"condo/internal/core"
)

// ResolveOwner finds the owner whose email is exactly the identity's.
func ResolveOwner(snap core.Snapshot, id core.Identity) (core.Owner, bool) {
	for _, o := range snap.Owners {
		if o.Email == id.Email {
			return o, true
		}
	}
	return core.Owner{}, false
}

// ResolveProperty finds the property owned by the identity's owner.
func ResolveProperty(snap core.Snapshot, id core.Identity) (core.Property, bool) {
	owner, ok := ResolveOwner(snap, id)
	if !ok {
		return core.Property{}, false
	}
	for _, p := range snap.Properties {
		if p.OwnerID == owner.ID {
			return p, true
		}
	}
	return core.Property{}, false
}

// scoped applies the resident rule shared by the property-bound
// collections. Other roles get the whole collection.
func scoped[T any](snap core.Snapshot, id core.Identity, items []T, propertyOf func(T) string, keepCommon bool) []T {
	if id.Role != core.RoleResident {
		return slices.Clone(items)
	}
	prop, ok := ResolveProperty(snap, id)
	out := make([]T, 0)
	for _, it := range items {
		pid := propertyOf(it)
		if (ok && pid == prop.ID) || (keepCommon && core.IsCommonArea(pid)) {
			out = append(out, it)
		}
	}
	return out
}

// VisibleTransactions returns the newest first.
func VisibleTransactions(snap core.Snapshot, id core.Identity) []core.Transaction {
	txs := scoped(snap, id, snap.Transactions, func(t core.Transaction) string { return t.PropertyID }, false)
	SortNewestFirst(txs, func(t core.Transaction) string { return t.Date })
	return txs
}

// VisibleMaintenanceRequests keeps common-area requests for residents
// even when no property resolves.
func VisibleMaintenanceRequests(snap core.Snapshot, id core.Identity) []core.MaintenanceRequest {
	reqs := scoped(snap, id, snap.MaintenanceRequests, func(r core.MaintenanceRequest) string { return r.PropertyID }, true)
	SortNewestFirst(reqs, func(r core.MaintenanceRequest) string { return r.SubmittedDate })
	return reqs
}

// VisibleAmenityBookings returns the soonest first.
func VisibleAmenityBookings(snap core.Snapshot, id core.Identity) []core.AmenityBooking {
	bookings := scoped(snap, id, snap.AmenityBookings, func(b core.AmenityBooking) string { return b.PropertyID }, false)
	slices.SortStableFunc(bookings, func(a, b core.AmenityBooking) int {
		return core.ParseDate(a.Date).Compare(core.ParseDate(b.Date))
	})
	return bookings
}

func VisiblePackages(snap core.Snapshot, id core.Identity) []core.Package {
	return scoped(snap, id, snap.Packages, func(p core.Package) string { return p.PropertyID }, false)
}

// VisibleVisitors limits residents to visitors of their own property.
// Admins and guards keep the full gate log.
func VisibleVisitors(snap core.Snapshot, id core.Identity) []core.Visitor {
	return scoped(snap, id, snap.Visitors, func(v core.Visitor) string { return v.PropertyID }, false)
}

// VisibleMarketplaceItems is empty for guards.
func VisibleMarketplaceItems(snap core.Snapshot, id core.Identity) []core.MarketplaceItem {
	if !CanUseMarketplace(id.Role) {
		return []core.MarketplaceItem{}
	}
	return slices.Clone(snap.MarketplaceItems)
}

// VisibleExpenses is empty for everyone but administrators.
func VisibleExpenses(snap core.Snapshot, id core.Identity) []core.Expense {
	if !CanManageExpenses(id.Role) {
		return []core.Expense{}
	}
	out := slices.Clone(snap.Expenses)
	SortNewestFirst(out, func(e core.Expense) string { return e.Date })
	return out
}

// PollView is a poll as one identity sees it.
type PollView struct {
	core.Poll
	Effective   core.PollStatus `json:"effectiveStatus"`
	HasVoted    bool            `json:"hasVoted"`
	CanVote     bool            `json:"canVote"`
	ShowResults bool            `json:"showResults"`
}

// VisiblePolls returns every poll, newest first, with the voting state of
// the identity. Results show once a poll is closed, after voting, or to
// administrators.
func VisiblePolls(snap core.Snapshot, id core.Identity, now time.Time) []PollView {
	ownerID := ""
	if owner, ok := ResolveOwner(snap, id); ok {
		ownerID = owner.ID
	}

	polls := slices.Clone(snap.Polls)
	SortNewestFirst(polls, func(p core.Poll) string { return p.CreationDate })

	out := make([]PollView, 0, len(polls))
	for _, p := range polls {
		status := p.EffectiveStatus(now)
		voted := ownerID != "" && p.HasVoted(ownerID)
		out = append(out, PollView{
			Poll:        p,
			Effective:   status,
			HasVoted:    voted,
			CanVote:     CanVote(id.Role) && ownerID != "" && status == core.PollActive && !voted,
			ShowResults: status == core.PollClosed || voted || id.Role == core.RoleAdmin,
		})
	}
	return out
}

// SortNewestFirst orders by the date returned by key, newest first. Equal
// dates keep their order.
func SortNewestFirst[T any](items []T, key func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return core.ParseDate(key(b)).Compare(core.ParseDate(key(a)))
	})
}
