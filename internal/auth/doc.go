// Package auth implements accounts and session-based authentication:
// bcrypt password hashing, registration and credential checks, SCS-backed
// cookie sessions, login rate limiting, and the Gin middleware that exposes
// the caller's identity and staff role to downstream handlers.
package auth
