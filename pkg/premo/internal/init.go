// Package internal contains logging infrastructure shared by the premo packages.
// Types and functions in this package are not part of the public API.
package internal
