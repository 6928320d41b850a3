// Package domain contains the core entities cached by the application:
// profiles and stores. Both are owned by the hosted backend; this package
// only defines their in-memory shape and basic validation. There are no
// persistence concerns here; every row arrives through the backend's
// row API under the caller's own credentials.
package domain
