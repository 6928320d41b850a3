// Package backend implements the client adapter for the hosted
// backend-as-a-service this application delegates to. The backend exposes
// two capability groups: identity operations (password sign-in, sign-up,
// sign-out, current-user lookup, password reset and update) under
// /auth/v1, and row-oriented data access under /rest/v1 where the
// backend's row-level security decides which rows a caller may read.
//
// A Client is cheap to construct and carries no session of its own; every
// identity- or row-scoped call takes the caller's access token explicitly.
// Backend failure messages are decoded into *Error and surfaced verbatim;
// the application defines no error taxonomy of its own.
package backend
