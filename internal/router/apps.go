package router

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nfrund/fleetconsole/internal/domain"
)

// authRoutes are shared by every console that has a sign-in flow.
var authRoutes = []Route{
	{Path: "/login", Name: "login", View: "LoginView"},
	{Path: "/register", Name: "register", View: "RegisterView"},
}

var consoleRoutes = []Route{
	{Path: "/", Name: "home", View: "HomeView"},
	{Path: "/profile", Name: "profile", View: "ProfileView"},
	{Path: "/modal-connectivity", Name: "modal-connectivity", View: "ModalConnectivityView"},
	{Path: "/security", Name: "security", View: "SecurityView"},
	{Path: "/scheduling", Name: "scheduling", View: "SchedulingView"},
}

func concat(groups ...[]Route) []Route {
	var out []Route
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// dashboardRoutes is the device/fleet dashboard.
var dashboardRoutes = []Route{
	{Path: "/", Name: "home", View: "HomeView"},
	{Path: "/modal-connectivity", Name: "modal-connectivity", View: "ModalConnectivityView"},
	{Path: "/security", Name: "security", View: "SecurityView"},
	{Path: "/scheduling", Name: "scheduling", View: "SchedulingView"},
	{Path: "/demo/lianxiang", Name: "demo-lianxiang", View: "LianxiangDemoView"},
	{Path: "/demo/taihao", Name: "demo-taihao", View: "TaihaoDemoView"},
	{
		Path: "/admin",
		View: "admin/AdminView",
		Children: []Route{
			{Path: "", Redirect: "admin-devices"},
			{Path: "devices", Name: "admin-devices", View: "admin/DeviceManagementView"},
			{Path: "models", Name: "admin-models", View: "admin/ModelManagementView"},
			{Path: "tasks", Name: "admin-tasks", View: "admin/TaskManagementView"},
		},
	},
}

// trafficRoutes is the traffic-signal control console.
var trafficRoutes = concat(consoleRoutes[:1], authRoutes, consoleRoutes[1:], []Route{
	{Path: "/signal-controller", Name: "signal-controller", Redirect: "signal-controller-overview"},
	{Path: "/signal-controller/overview", Name: "signal-controller-overview", View: "signal-controller/IntersectionOverviewView"},
	{Path: "/signal-controller/strategy", Name: "signal-controller-strategy", View: "signal-controller/TrafficStrategyView"},
	{Path: "/signal-controller/schedule", Name: "signal-controller-schedule", View: "signal-controller/TimeScheduleView"},
	{Path: "/signal-controller/monitoring", Name: "signal-controller-monitoring", View: "signal-controller/RealTimeMonitoringView"},
})

// adminRoutes is the device administration console.
var adminRoutes = concat(authRoutes, []Route{
	{
		Path: "/",
		View: "admin/AdminView",
		Children: []Route{
			{Path: "", Redirect: "devices"},
			{Path: "devices", Name: "devices", View: "admin/DeviceManagementView"},
			{Path: "device-types", Name: "device-types", View: "admin/DeviceTypeManagementView"},
			{Path: "models", Name: "models", View: "admin/ModelManagementView"},
			{Path: "tasks", Name: "tasks", View: "admin/TaskManagementView"},
			{Path: "profile", Name: "profile", View: "admin/ProfileView"},
		},
	},
})

// ddosRoutes are listed twice in the IoT security console's source table;
// the copies are identical and collapse when the table is built.
var ddosRoutes = []Route{
	{Path: "/ddos-check", Name: "ddos-check", View: "DdosCheckView"},
	{Path: "/ddos/system-status", Name: "ddos-system-status", View: "DdosSystemStatusView"},
	{Path: "/ddos/device-monitor", Name: "ddos-device-monitor", View: "DdosDeviceMonitorView"},
}

// mmiiotRoutes is the IoT security console.
var mmiiotRoutes = concat(consoleRoutes[:1], authRoutes, consoleRoutes[1:], ddosRoutes, ddosRoutes, []Route{
	{Path: "/demo/lenovo", Name: "demo-lenovo", View: "LianxiangDemoView"},
	{Path: "/demo/tellhow", Name: "demo-tellhow", View: "TaihaoDemoView"},
})

// plmRoutes is the PLM console; its topology editor lives on the home view.
var plmRoutes = concat(consoleRoutes[:1], authRoutes, consoleRoutes[1:2])

// fmsRoutes is the FMS console.
var fmsRoutes = concat(consoleRoutes[:1], authRoutes, consoleRoutes[1:2])

var (
	tablesOnce sync.Once
	tables     map[string]*Table
)

func loadTables() map[string]*Table {
	tablesOnce.Do(func() {
		tables = map[string]*Table{
			"dashboard": MustTable("dashboard", dashboardRoutes),
			"traffic":   MustTable("traffic", trafficRoutes),
			"admin":     MustTable("admin", adminRoutes),
			"mmiiot":    MustTable("mmiiot", mmiiotRoutes),
			"plm":       MustTable("plm", plmRoutes),
			"fms":       MustTable("fms", fmsRoutes),
		}
	})
	return tables
}

// ForApp returns the route table of a console app.
func ForApp(app string) (*Table, error) {
	t, ok := loadTables()[app]
	if !ok {
		return nil, fmt.Errorf("%q: %w", app, domain.ErrUnknownApp)
	}
	return t, nil
}

// Apps lists the known console apps, sorted.
func Apps() []string {
	all := loadTables()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
