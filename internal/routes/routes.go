// Package routes names the screens of the web application.
package routes

// Path is the URL path of a screen.
type Path string

const (
	Login     Path = "/"
	Bills     Path = "/employee/bills"
	NewBill   Path = "/employee/bill/new"
	Dashboard Path = "/admin/dashboard"
)

// String implements fmt.Stringer.
func (p Path) String() string {
	return string(p)
}

// Known reports whether p is one of the screens above.
func (p Path) Known() bool {
	switch p {
	case Login, Bills, NewBill, Dashboard:
		return true
	}
	return false
}
