// Package auth implements password hashing, token issuance and the login
// flow used to authenticate http requests.
//
// Passwords are hashed with bcrypt. There are two ways to produce a hash:
// a fixed salt (deterministic, only meant for fixtures and legacy data) and
// a random salt (16 fresh bytes per call). They are exposed as two different
// policy types so code that stores user passwords can only ever receive the
// random one.
//
// Tokens are compact HS256 JWTs carrying the user id, name and expiry. The
// signing secret is loaded once during startup and never changes while the
// process is running. There is no refresh and no revocation, a token is
// valid until its exp field is in the past.
//
// Every reason a token might be refused (bad structure, bad signature,
// expired) is reported to clients as the same "invalid token" error. The
// login flow does the same for unknown users, so a caller cannot use it to
// find out which accounts exist.
package auth
