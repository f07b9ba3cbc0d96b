// Package views renders the screens of the web application.
//
// Every renderer is a pure function from data to a templ.Component. The
// markup carries data-testid attributes that the containers and the tests
// rely on.
package views

import (
	"log/slog"
	"sort"

	"github.com/a-h/templ"

	"github.com/mmynk/billed/internal/calculator"
	"github.com/mmynk/billed/internal/format"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/routes"
)

// PreviewWidth is the width in pixels of the receipt shown in the modal.
const PreviewWidth = 400

// Preview is the receipt modal opened from the bills list.
type Preview struct {
	URL   string
	Width int
}

// BillsData feeds BillsUI.
type BillsData struct {
	Bills   []models.Bill
	Loading bool
	Error   string
	Preview *Preview
}

// NewBillData feeds NewBillUI. Values and Invalid are keyed by input name.
type NewBillData struct {
	Values       map[string]string
	Invalid      map[string]bool
	FileName     string
	FileRejected bool
}

// DashboardGroup is one status column of the admin dashboard.
type DashboardGroup struct {
	Status models.Status
	Label  string
	Bills  []models.Bill
	Total  *calculator.StatusTotal
}

// DashboardData feeds DashboardUI.
type DashboardData struct {
	Bills   []models.Bill
	Loading bool
	Error   string
}

// LoginData feeds LoginUI.
type LoginData struct {
	Email string
	Error string
}

// RouteData selects and feeds a screen in Routes.
type RouteData struct {
	Pathname routes.Path
	Data     any
	Error    string
	Loading  bool
}

type nav struct {
	Active  routes.Path
	Bills   routes.Path
	NewBill routes.Path
}

func navFor(active routes.Path) nav {
	return nav{Active: active, Bills: routes.Bills, NewBill: routes.NewBill}
}

// BillsUI renders the employee bills list, newest first.
func BillsUI(data BillsData) templ.Component {
	if data.Loading {
		return LoadingPage()
	}
	if data.Error != "" {
		return ErrorPage(data.Error)
	}

	return execute("bills", struct {
		Nav     nav
		Bills   []models.Bill
		Preview *Preview
	}{
		Nav:     navFor(routes.Bills),
		Bills:   antiChrono(data.Bills),
		Preview: data.Preview,
	})
}

// antiChrono sorts a copy of bills by raw date, newest first.
func antiChrono(bills []models.Bill) []models.Bill {
	sorted := make([]models.Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}

// NewBillUI renders the new bill form.
func NewBillUI(data NewBillData) templ.Component {
	return execute("newbill", struct {
		NewBillData
		Nav          nav
		ExpenseTypes []string
	}{
		NewBillData:  data,
		Nav:          navFor(routes.NewBill),
		ExpenseTypes: models.ExpenseTypes,
	})
}

// DashboardUI renders the admin review screen, bills grouped by status.
func DashboardUI(data DashboardData) templ.Component {
	if data.Loading {
		return LoadingPage()
	}
	if data.Error != "" {
		return ErrorPage(data.Error)
	}

	return execute("dashboard", struct {
		Path   routes.Path
		Groups []DashboardGroup
	}{
		Path:   routes.Dashboard,
		Groups: Groups(data.Bills),
	})
}

// Groups splits bills by status in dashboard order with their totals.
func Groups(bills []models.Bill) []DashboardGroup {
	totals := calculator.Summarize(bills)
	groups := make([]DashboardGroup, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		groups = append(groups, DashboardGroup{
			Status: s,
			Label:  format.Status(s),
			Total:  totals[s],
		})
	}
	for _, bill := range antiChrono(bills) {
		for i := range groups {
			if groups[i].Status == bill.Status {
				groups[i].Bills = append(groups[i].Bills, bill)
			}
		}
	}
	return groups
}

// LoginUI renders the employee and admin login forms.
func LoginUI(data LoginData) templ.Component {
	return execute("login", data)
}

// ErrorPage renders message as the whole screen.
func ErrorPage(message string) templ.Component {
	return execute("error", message)
}

// LoadingPage renders the placeholder shown while data loads.
func LoadingPage() templ.Component {
	return execute("loading", nil)
}

// Routes renders the screen for data.Pathname. Unknown paths render the
// error page.
func Routes(data RouteData) templ.Component {
	switch data.Pathname {
	case routes.Login:
		d, _ := data.Data.(LoginData)
		if data.Error != "" {
			d.Error = data.Error
		}
		return LoginUI(d)
	case routes.Bills:
		d, ok := data.Data.(BillsData)
		if !ok {
			bills, _ := data.Data.([]models.Bill)
			d = BillsData{Bills: bills}
		}
		d.Error = firstNonEmpty(data.Error, d.Error)
		d.Loading = d.Loading || data.Loading
		return BillsUI(d)
	case routes.NewBill:
		d, _ := data.Data.(NewBillData)
		return NewBillUI(d)
	case routes.Dashboard:
		d, ok := data.Data.(DashboardData)
		if !ok {
			bills, _ := data.Data.([]models.Bill)
			d = DashboardData{Bills: bills}
		}
		d.Error = firstNonEmpty(data.Error, d.Error)
		d.Loading = d.Loading || data.Loading
		return DashboardUI(d)
	default:
		slog.Debug("No screen for path", "path", data.Pathname)
		return ErrorPage("Page introuvable")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func execute(name string, data any) templ.Component {
	return templ.FromGoHTML(pages.Lookup(name), data)
}
