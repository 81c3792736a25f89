// Package auth provides authentication for the API.
//
// Two credentials are supported:
//
//   - Bearer tokens: issued at register/login, stored as a SHA-256 hash,
//     validated on every request. This is the primary credential for API
//     and SPA clients.
//   - Sessions: scs-backed cookie sessions for browser clients, guarded
//     by CSRF protection on state-changing requests.
//
// The middleware resolves the principal per request and injects the user
// id and display name into the gin context. Set AUTH_MODE=none to
// disable the gate for local development.
package auth
