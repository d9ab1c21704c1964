// Package config loads and validates the aquaview-server configuration from
// a YAML file, and watches it for hot-reloads.
//
// Missing fields are filled with defaults before validation, so an empty
// file yields a fully working server with the built-in fleet. Only alert
// rules and webhooks take effect on hot-reload; the site fleet and tick
// interval are fixed for the lifetime of the process.
package config
