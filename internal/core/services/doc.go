// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The export is strictly sequential: one space, one batch and one page at
// a time. The only suspension points are backoff sleeps.
package services
