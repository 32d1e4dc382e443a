// package models defines the client-side view models mirroring CineTalk
// server JSON, plus the derived views computed from them (top reviews,
// best comments, OTT logo resolution, category slug resolution).
//
// All entities are transient: fetched into view state and discarded on
// navigation. Only the OTT catalog, board categories and the cached
// username outlive a session, via the repositories package.
package models
