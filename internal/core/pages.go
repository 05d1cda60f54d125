package core

// Page names the views of the application.
type Page string

const (
	PageDashboard     Page = "dashboard"
	PageProperties    Page = "properties"
	PageResidents     Page = "residents"
	PageCommunication Page = "communication"
	PageFinance       Page = "finance"
	PageSecurity      Page = "security"
	PageMaintenance   Page = "maintenance"
	PageServices      Page = "services"
	PagePolls         Page = "polls"
	PageSettings      Page = "settings"
)

// Pages lists every page in navigation order.
var Pages = []Page{
	PageDashboard, PageProperties, PageResidents, PageCommunication, PageFinance,
	PageSecurity, PageMaintenance, PageServices, PagePolls, PageSettings,
}

// LandingPage is where a freshly signed-in role starts.
func LandingPage(r Role) Page {
	if r == RoleGuard {
		return PageSecurity
	}
	return PageDashboard
}
