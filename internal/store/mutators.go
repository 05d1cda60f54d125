package store

import (
	"context"
	"fmt"

	"condo/internal/core"
)

// The Add methods append a caller-built record as is. They do not check
// business rules; that happens before the record is built.

func (s *Store) AddProperty(ctx context.Context, p core.Property) {
	add(ctx, s, core.CollProperties, p.ID, fmt.Sprintf("Propiedad Lote %d agregada.", p.LotNumber), p,
		func(sn *core.Snapshot) *[]core.Property { return &sn.Properties })
}

func (s *Store) AddOwner(ctx context.Context, o core.Owner) {
	add(ctx, s, core.CollOwners, o.ID, fmt.Sprintf("Residente %s agregado.", o.Name), o,
		func(sn *core.Snapshot) *[]core.Owner { return &sn.Owners })
}

func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) {
	add(ctx, s, core.CollTransactions, t.ID, fmt.Sprintf("Transacción de %s registrada.", t.Amount), t,
		func(sn *core.Snapshot) *[]core.Transaction { return &sn.Transactions })
}

func (s *Store) AddExpense(ctx context.Context, e core.Expense) {
	add(ctx, s, core.CollExpenses, e.ID, fmt.Sprintf("Gasto de %s en %s registrado.", e.Amount, e.Category), e,
		func(sn *core.Snapshot) *[]core.Expense { return &sn.Expenses })
}

func (s *Store) AddVisitor(ctx context.Context, v core.Visitor) {
	add(ctx, s, core.CollVisitors, v.ID, fmt.Sprintf("Visitante %s registrado.", v.Name), v,
		func(sn *core.Snapshot) *[]core.Visitor { return &sn.Visitors })
}

func (s *Store) AddMaintenanceRequest(ctx context.Context, r core.MaintenanceRequest) {
	add(ctx, s, core.CollMaintenance, r.ID, fmt.Sprintf("Solicitud de mantenimiento para %s creada.", r.Area), r,
		func(sn *core.Snapshot) *[]core.MaintenanceRequest { return &sn.MaintenanceRequests })
}

func (s *Store) AddAmenityBooking(ctx context.Context, b core.AmenityBooking) {
	add(ctx, s, core.CollBookings, b.ID, fmt.Sprintf("Reservación de %s para el %s confirmada.", b.Amenity, b.Date), b,
		func(sn *core.Snapshot) *[]core.AmenityBooking { return &sn.AmenityBookings })
}

func (s *Store) AddPackage(ctx context.Context, p core.Package) {
	add(ctx, s, core.CollPackages, p.ID, fmt.Sprintf("Paquete de %s registrado en caseta.", p.Carrier), p,
		func(sn *core.Snapshot) *[]core.Package { return &sn.Packages })
}

func (s *Store) AddMarketplaceItem(ctx context.Context, m core.MarketplaceItem) {
	add(ctx, s, core.CollMarketplace, m.ID, fmt.Sprintf("Artículo \"%s\" publicado.", m.Title), m,
		func(sn *core.Snapshot) *[]core.MarketplaceItem { return &sn.MarketplaceItems })
}

func (s *Store) AddProvider(ctx context.Context, p core.Provider) {
	add(ctx, s, core.CollProviders, p.ID, fmt.Sprintf("Proveedor %s agregado.", p.Name), p,
		func(sn *core.Snapshot) *[]core.Provider { return &sn.Providers })
}

func (s *Store) AddLocalBusiness(ctx context.Context, b core.LocalBusiness) {
	add(ctx, s, core.CollLocalBusinesses, b.ID, fmt.Sprintf("Negocio %s agregado.", b.Name), b,
		func(sn *core.Snapshot) *[]core.LocalBusiness { return &sn.LocalBusinesses })
}

func (s *Store) AddAnnouncement(ctx context.Context, a core.Announcement) {
	add(ctx, s, core.CollAnnouncements, a.ID, fmt.Sprintf("Anuncio \"%s\" publicado.", a.Title), a,
		func(sn *core.Snapshot) *[]core.Announcement { return &sn.Announcements })
}

func (s *Store) AddPoll(ctx context.Context, p core.Poll) {
	add(ctx, s, core.CollPolls, p.ID, fmt.Sprintf("Encuesta \"%s\" creada.", p.Title), p,
		func(sn *core.Snapshot) *[]core.Poll { return &sn.Polls })
}
