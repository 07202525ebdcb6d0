// Package models defines the records that move between the Subsonic client, the exporter and the library snapshot.
//
// The package contains two categories of types:
//
// 1. Export values built from [subsonic] entities
//   - [Discography] : an artist with its reconciled album list
//
// 2. Persistent records written to SQLite
//   - [ArtistRecord] : an exported artist with generated ID and export time
//   - [AlbumRecord] : an album belonging to an exported artist
//
// Persistent records implement [Model]; [Repository] is the generic data access interface.
package models
