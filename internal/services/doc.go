// Package services implements the HTTP transport behind [subsonic.Client].
//
// # Subsonic Implementation
//
// [SubsonicService] issues GET requests to /rest/<operation> and appends the authentication
// parameters to every query. Package subsonic never sees credentials.
//
// Token authentication is used by default: t = md5(password + salt) with a fresh salt per
// request. [SubsonicOpts.LegacyAuth] switches to the hex encoded password for servers that
// reject tokens with error 41.
//
// # Responses
//
//   - [SubsonicService.Invoke] returns the full response document for package subsonic to resolve
//   - [SubsonicService.InvokeBytes] returns binary bodies, or the server's [*subsonic.APIError]
//     when the server answers with a document instead
//   - [SubsonicService.Raw] returns the body untouched for inspection (the raw command)
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingConfig] : no server url configured
//   - [shared.ErrMissingCredentials] : username or password missing
//   - [shared.ErrAPIRequest] : non-2xx HTTP status
//
// Request, network and read failures are returned wrapped; package subsonic reports them as
// transport errors.
package services
