package http

import (
	"net/http"
	"slices"

	"condo/internal/access"
	"condo/internal/core"
)

// Properties and owners: administrators see every record, residents only
// their own, guards nothing.

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity()
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	switch id.Role {
	case core.RoleAdmin:
		ok(w, snap.Properties)
	case core.RoleResident:
		out := []core.Property{}
		if p, found := access.ResolveProperty(snap, id); found {
			out = append(out, p)
		}
		ok(w, out)
	default:
		writeError(w, r, errForbidden)
	}
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManageProperties); err != nil {
		writeError(w, r, err)
		return
	}
	var req propertyRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	if req.OwnerID != "" {
		if _, found := snap.Owner(req.OwnerID); !found {
			writeError(w, r, FieldErrors{"ownerId": "propietario desconocido"})
			return
		}
	}
	for _, p := range snap.Properties {
		if p.LotNumber == req.LotNumber {
			writeError(w, r, core.ErrDuplicate)
			return
		}
	}

	p := core.NewProperty(req.LotNumber, sanitizeInput(req.Address), sanitizeInput(req.Model), req.Area, req.OwnerID, s.store.Now())
	s.store.AddProperty(r.Context(), p)
	created(w, "/api/properties/"+p.ID, p)
}

func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	id, err := s.identity()
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	switch id.Role {
	case core.RoleAdmin:
		ok(w, snap.Owners)
	case core.RoleResident:
		out := []core.Owner{}
		if o, found := access.ResolveOwner(snap, id); found {
			out = append(out, o)
		}
		ok(w, out)
	default:
		writeError(w, r, errForbidden)
	}
}

func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManageResidents); err != nil {
		writeError(w, r, err)
		return
	}
	var req ownerRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	o := core.NewOwner(sanitizeInput(req.Name), req.Email, sanitizeInput(req.Phone))
	s.store.AddOwner(r.Context(), o)
	created(w, "/api/owners/"+o.ID, o)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageFinance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, access.VisibleTransactions(s.store.Snapshot(), id))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanRecordTransactions); err != nil {
		writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amt, err := req.Amount.money("amount")
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	if _, found := snap.Property(req.PropertyID); !found {
		writeError(w, r, FieldErrors{"propertyId": "propiedad desconocida"})
		return
	}

	t := core.NewTransaction(req.PropertyID, core.TransactionType(req.Type), amt, core.TransactionStatus(req.Status), s.store.Now())
	s.store.AddTransaction(r.Context(), t)
	created(w, "/api/transactions/"+t.ID, t)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageFinance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, access.VisibleExpenses(s.store.Snapshot(), id))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManageExpenses); err != nil {
		writeError(w, r, err)
		return
	}
	var req expenseRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	amt, err := req.Amount.money("amount")
	if err != nil {
		writeError(w, r, err)
		return
	}
	e := core.NewExpense(sanitizeInput(req.Category), sanitizeInput(req.Description), amt, s.store.Now())
	s.store.AddExpense(r.Context(), e)
	created(w, "/api/expenses/"+e.ID, e)
}

func (s *Server) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageMaintenance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, access.VisibleMaintenanceRequests(s.store.Snapshot(), id))
}

// handleCreateMaintenance files a request. Residents always file against
// their own property; an administrator may leave the property empty for
// common areas.
func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireRole(access.CanManageMaintenance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req maintenanceRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	propertyID, err := residentProperty(snap, id, req.PropertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if propertyID != "" && !core.IsCommonArea(propertyID) {
		if _, found := snap.Property(propertyID); !found {
			writeError(w, r, FieldErrors{"propertyId": "propiedad desconocida"})
			return
		}
	}

	m := core.NewMaintenanceRequest(propertyID, sanitizeInput(req.Area), sanitizeInput(req.Description), s.store.Now())
	s.store.AddMaintenanceRequest(r.Context(), m)
	created(w, "/api/maintenance-requests/"+m.ID, m)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageMaintenance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, access.VisibleAmenityBookings(s.store.Snapshot(), id))
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireRole(access.CanManageMaintenance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req bookingRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	snap := s.store.Snapshot()
	propertyID, err := residentProperty(snap, id, req.PropertyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, found := snap.Property(propertyID); !found {
		writeError(w, r, FieldErrors{"propertyId": "propiedad desconocida"})
		return
	}

	b := core.NewAmenityBooking(sanitizeInput(req.Amenity), propertyID, req.Date, sanitizeInput(req.TimeSlot))
	s.store.AddAmenityBooking(r.Context(), b)
	created(w, "/api/amenity-bookings/"+b.ID, b)
}

func (s *Server) handleListMarketplace(w http.ResponseWriter, r *http.Request) {
	id, err := s.requirePage(core.PageServices)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := access.VisibleMarketplaceItems(s.store.Snapshot(), id)
	access.SortNewestFirst(items, func(m core.MarketplaceItem) string { return m.DatePosted })
	ok(w, items)
}

// handleCreateMarketplaceItem lists an item sold by the signed-in
// identity's owner record.
func (s *Server) handleCreateMarketplaceItem(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireRole(access.CanUseMarketplace)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req marketplaceRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	price, err := req.Price.money("price")
	if err != nil {
		writeError(w, r, err)
		return
	}
	seller, err := residentOwner(s.store.Snapshot(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	m := core.NewMarketplaceItem(sanitizeInput(req.Title), sanitizeInput(req.Description), price, seller.ID, s.store.Now())
	if req.ImageURL != "" {
		m.ImageURL = req.ImageURL
	}
	s.store.AddMarketplaceItem(r.Context(), m)
	created(w, "/api/marketplace-items/"+m.ID, m)
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requirePage(core.PageServices); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, s.store.Snapshot().Providers)
}

func (s *Server) handleCreateProvider(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManageDirectory); err != nil {
		writeError(w, r, err)
		return
	}
	var req providerRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p := core.NewProvider(sanitizeInput(req.Name), sanitizeInput(req.Service), sanitizeInput(req.Phone), req.Rating)
	s.store.AddProvider(r.Context(), p)
	created(w, "/api/providers/"+p.ID, p)
}

func (s *Server) handleListBusinesses(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requirePage(core.PageServices); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, s.store.Snapshot().LocalBusinesses)
}

func (s *Server) handleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requireRole(access.CanManageDirectory); err != nil {
		writeError(w, r, err)
		return
	}
	var req businessRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b := core.NewLocalBusiness(sanitizeInput(req.Name), sanitizeInput(req.Category), sanitizeInput(req.Phone), sanitizeInput(req.Address))
	s.store.AddLocalBusiness(r.Context(), b)
	created(w, "/api/local-businesses/"+b.ID, b)
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	if _, err := s.requirePage(core.PageCommunication); err != nil {
		writeError(w, r, err)
		return
	}
	out := slices.Clone(s.store.Snapshot().Announcements)
	access.SortNewestFirst(out, func(a core.Announcement) string { return a.Date })
	ok(w, out)
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, err := s.requireRole(access.CanPublishAnnouncements)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req announcementRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	a := core.NewAnnouncement(sanitizeInput(req.Title), req.Content, id.Name, s.store.Now())
	s.store.AddAnnouncement(r.Context(), a)
	created(w, "/api/announcements/"+a.ID, a)
}
