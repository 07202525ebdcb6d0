// Package tasks orchestrates library operations that span several Subsonic requests, with real-time progress reporting.
//
// # Core Operations
//
// The [LibraryEngine] interface defines three operations:
//
//  1. [LibraryEngine.Discography] : an artist and its reconciled album list
//     - Fetches the artist with getArtist
//     - Refetches only when the embedded albums disagree with the declared count
//
//  2. [LibraryEngine.Similar] : similar artists from the server's metadata agent
//     - Fetches getArtistInfo2 including suggestions absent from the library
//     - Upgrades each suggestion present on the server to a full artist
//
//  3. [LibraryEngine.Export] : discographies written to disk
//     - A single producer fetches artists through a rate limited client
//     - A worker pool writes json, yaml, csv, markdown or txt files
//     - A manifest (export_manifest.json) summarizes successes and failures
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// Updates use select with default so a slow reader never stalls an operation.
//
// # Library Snapshot
//
// The optional [Snapshotter] receives every successfully exported discography.
// Snapshot failures are counted and logged but never fail the export.
package tasks
