// Package pagination gates paginated remote calls.
//
// A [Cursor] counts pages started and items received and answers whether
// another page may be fetched under the configured page and item limits.
// [Collect] drives a page-fetching function with a cursor, advancing the
// offset by the number of items each page returned.
package pagination
