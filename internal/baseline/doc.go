// Package baseline holds the static site registry and the per-site baseline
// values the simulator perturbs on every tick.
//
// The registry is built once at startup — from the built-in fleet or from the
// config file — and is immutable afterwards. Lookups for unrecognized site
// ids deliberately fall back to the registry's default baseline instead of
// failing, so a stale id in a client can never take the dashboard down.
package baseline
