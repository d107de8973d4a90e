// Package utils provides loose type conversions for decoded JSON and scraped text,
// plus small generic helpers.
package utils
