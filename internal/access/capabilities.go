package access

import "condo/internal/core"

func CanManagePackages(r core.Role) bool {
	return r == core.RoleAdmin || r == core.RoleGuard
}

func CanSeeFinanceTotals(r core.Role) bool { return r == core.RoleAdmin }

func CanManageProperties(r core.Role) bool { return r == core.RoleAdmin }

func CanManageResidents(r core.Role) bool { return r == core.RoleAdmin }

func CanRegisterVisitors(r core.Role) bool { return r.IsValid() }

func CanCreatePolls(r core.Role) bool { return r == core.RoleAdmin }

func CanVote(r core.Role) bool { return r == core.RoleResident }

func CanUseMarketplace(r core.Role) bool {
	return r == core.RoleAdmin || r == core.RoleResident
}

func CanPublishAnnouncements(r core.Role) bool { return r == core.RoleAdmin }

func CanManageExpenses(r core.Role) bool { return r == core.RoleAdmin }

func CanRecordTransactions(r core.Role) bool { return r == core.RoleAdmin }

// CanManageMaintenance covers filing requests and booking amenities.
func CanManageMaintenance(r core.Role) bool {
	return r == core.RoleAdmin || r == core.RoleResident
}

// CanManageDirectory covers providers and local businesses.
func CanManageDirectory(r core.Role) bool { return r == core.RoleAdmin }

var pageRoles = map[core.Page][]core.Role{
	core.PageDashboard:     {core.RoleAdmin, core.RoleResident},
	core.PageProperties:    {core.RoleAdmin},
	core.PageResidents:     {core.RoleAdmin},
	core.PageCommunication: {core.RoleAdmin, core.RoleResident},
	core.PageFinance:       {core.RoleAdmin, core.RoleResident},
	core.PageSecurity:      {core.RoleAdmin, core.RoleResident, core.RoleGuard},
	core.PageMaintenance:   {core.RoleAdmin, core.RoleResident},
	core.PageServices:      {core.RoleAdmin, core.RoleResident, core.RoleGuard},
	core.PagePolls:         {core.RoleAdmin, core.RoleResident},
	core.PageSettings:      {core.RoleAdmin},
}

// CanAccessPage reports whether role may open page. Unknown pages are
// closed to everyone.
func CanAccessPage(r core.Role, p core.Page) bool {
	for _, allowed := range pageRoles[p] {
		if allowed == r {
			return true
		}
	}
	return false
}

// Navigation lists the pages role may open, in menu order.
func Navigation(r core.Role) []core.Page {
	var out []core.Page
	for _, p := range core.Pages {
		if CanAccessPage(r, p) {
			out = append(out, p)
		}
	}
	return out
}
