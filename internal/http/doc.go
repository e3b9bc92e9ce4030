// Package http provides HTTP handlers and middleware for the time tracking API.
//
// The router exposes the following endpoints:
//   - POST /register: creates an account. Body: {"email","password","display_name","job_title"}.
//   - POST /login: issues a session token. Body: {"email","password"}. The token is
//     returned in the body and surfaced via the `X-Session-Token` header and a
//     `session_token` cookie.
//   - POST /logout: revokes the current session. Returns 204 and clears the cookie.
//   - POST /sessions/refresh: rotates the current session token and extends its expiry.
//   - POST /entries: clocks a user in. GET /entries lists a user's entries with optional
//     `start`/`end` bounds; GET /entries/recent returns the most recent entry.
//   - GET /entries/{id}, PUT /entries/{id}, DELETE /entries/{id}: single-entry access
//     and manager corrections. POST /entries/{id}/clock-out closes an open entry.
//   - GET /reports/payroll, GET /reports/projects/{id}: windowed aggregation reports
//     for managers, parameterized by `start` and `end`.
//   - GET /users, GET/PUT/PATCH /users/{id}: directory listing, profile updates, and
//     manager-controlled pay rate / role / disabled changes.
//   - POST /organizations, GET/PUT /organizations/{id}: tenant management.
//   - GET/POST /projects, GET/PUT/DELETE /projects/{id},
//     PUT/DELETE /projects/{id}/members/{userID}: project catalog and membership.
//   - GET/POST /locations, PUT/DELETE /locations/{id}: work location catalog.
//   - GET/POST /invitations, DELETE /invitations/{id}, POST /invitations/accept:
//     organization invitations and redemption.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
