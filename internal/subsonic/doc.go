// Package subsonic turns Subsonic API responses into typed entities.
//
// # Envelopes
//
// Every endpoint answers with a "subsonic-response" document carrying a status, an optional
// error and one of many mutually exclusive payload fields. [Decode] parses the document and
// [Envelope.Resolve] reduces it to a single [Payload]:
//   - failed status : the server's [*APIError], payload fields are ignored
//   - ok status : the first populated field in [PayloadKind] order
//   - ok status, nothing populated : [ErrUnrecognized]
//
// # Entities
//
// [Artist], [Album], [Song], [ArtistInfo] and [SimilarArtist] decode their payloads leniently:
// identifiers and counts may be JSON numbers or numeric strings. A value that is present but
// not a non-negative integer fails the whole decode with a [*MalformedError].
//
// # Accessors
//
// Accessors such as [Artist.Albums], [Album.Songs] and [SimilarArtist.Upgrade] take a [Client]
// and perform at most one round trip. Embedded collections are trusted only when their length
// matches the declared count; otherwise the parent is fetched again when the caller asks for them.
//
// The package does not cache, retry or authenticate. Those belong to the [Client] implementation.
package subsonic
