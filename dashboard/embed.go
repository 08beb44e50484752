// Package dashboard provides the embedded web UI assets for AssetBoard.
//
// This package uses Go's embed directive to include the feature unit pages
// at compile time. This enables single-binary deployment without external
// asset files.
//
// The pages are served by the server package under their feature unit's
// route. Users of the assetboard library should not need to interact with
// this package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the feature unit pages.
//
// The filesystem structure is:
//
//	assets/
//	  welcome.html  - Landing page of the welcome unit
//	  asset.html    - Asset state page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
