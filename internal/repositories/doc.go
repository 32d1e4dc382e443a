// package repositories persists local caches in SQLite: the server's OTT
// and category catalogs (so filter bars render before the network answers)
// and per-user hints like the recently viewed movie trail.
//
// Cached rows mirror server state and are replaced wholesale on refresh;
// the server stays the source of truth.
package repositories
