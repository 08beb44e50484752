// Package router holds AssetBoard's route table: a static mapping from URL
// path to feature unit.
//
// The application table ([Default]) has three entries:
//
//	""        -> redirect to /welcome
//	"welcome" -> welcome unit
//	"asset"   -> asset unit
//
// [Table.Resolve] answers which unit a path ends up on, following redirects;
// [Table.Mount] registers the table on a chi router. Feature units are
// loaded once, on their first request.
package router
