// Package repositories implements SQLite persistence for the library snapshot.
//
// The snapshot is written by the export command and read by the library command. It is never
// consulted when talking to the server, so it does not act as a response cache.
//
// Key Implementations:
//   - [LibraryRepository] : artist and album records keyed by the server's artist id
//   - [SnapshotAdapter] : bridges exported discographies to [LibraryRepository]
//
// Record IDs are v4 UUIDs generated on first save and kept across re-exports of the same artist.
package repositories
