// Package cachekey names the redis keys shared between modules that fill a
// cache and modules that invalidate it.
package cachekey

const (
	DashboardAdmin = "dashboard:admin"
	CadetOptions   = "cadets:options"

	dashboardCadetPrefix = "dashboard:cadet:"
)

func DashboardCadet(cadetID string) string {
	return dashboardCadetPrefix + cadetID
}
