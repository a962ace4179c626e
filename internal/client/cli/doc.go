// Package cli provides the interactive jobportal command-line client.
//
// It wires configuration, the local SQLite store, the request pipeline and
// the application services, then runs a REPL. Credentials left by a
// previous run are revalidated on start.
//
// Key features:
//   - Register (candidate or company), Login / Logout
//   - Browse vacancies page by page, show one, apply with a CV
//   - Public catalogue without signing in
//   - Interface language (en, hy, ru)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
