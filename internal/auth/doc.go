// Package auth implements registration, login, password management and
// request authentication.
//
// Requests authenticate either with a session cookie (web clients) or a
// signed bearer token (API clients). Both paths resolve to the same three
// claims: user id, role and family id.
package auth
