package assetboard

import (
	"github.com/jpalmerr/assetboard/internal/router"
	"github.com/jpalmerr/assetboard/internal/server"
)

// RouteInfo describes one entry of the host route table.
type RouteInfo struct {
	// Path is the route path without slashes; "" is the root.
	Path string

	// RedirectTo is the redirect target, empty for feature units.
	RedirectTo string

	// Unit is the name of the feature unit the route ends up on.
	Unit string
}

// Routes returns the host route table in declaration order. Redirect routes
// report the unit their target resolves to.
func Routes() []RouteInfo {
	table := defaultTable()

	routes := table.Routes()
	infos := make([]RouteInfo, 0, len(routes))
	for _, r := range routes {
		info := RouteInfo{Path: r.Path, RedirectTo: r.RedirectTo}
		if unit, err := table.Resolve(r.Path); err == nil {
			info.Unit = unit.Name()
		}
		infos = append(infos, info)
	}
	return infos
}

// ResolveRoute returns the name of the feature unit navigating to path ends
// up on, following redirects.
func ResolveRoute(path string) (string, error) {
	unit, err := defaultTable().Resolve(path)
	if err != nil {
		return "", err
	}
	return unit.Name(), nil
}

// defaultTable builds the route table without loaders; it is only used to
// describe routes, never to serve them.
func defaultTable() *router.Table {
	table, err := router.Default(nil,
		router.NewFeatureUnit(server.UnitWelcome, nil),
		router.NewFeatureUnit(server.UnitAsset, nil),
	)
	if err != nil {
		// the default routes are static
		panic(err)
	}
	return table
}
