package model

// Screen paths.
const (
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
	PathPayments  = "/payments"
	PathProfile   = "/profile"
	PathBillPay   = "/bill-pay"
	PathTopUp     = "/top-up"
)

// Route describes a screen reachable from the menu.
type Route struct {
	Path    string
	Title   string
	Icon    string
	Key     string // Menu shortcut
	Message string // Loading overlay text when navigating here
}

// Routes lists the menu screens in display order.
var Routes = []Route{
	{PathDashboard, "Dashboard", IconHome, "1", "Loading dashboard..."},
	{PathPayments, "Payments", IconSend, "2", "Loading payments..."},
	{PathBillPay, "Pay Bills", IconBill, "3", "Loading billers..."},
	{PathTopUp, "Top Up", IconTopUp, "4", "Loading top-up options..."},
	{PathProfile, "Profile", IconProfile, "5", "Loading profile..."},
}

// RouteFor returns the route registered for path.
func RouteFor(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	if path == PathLogin {
		return Route{Path: PathLogin, Title: "Sign In", Icon: IconLock, Message: "Signing out..."}, true
	}
	return Route{}, false
}
