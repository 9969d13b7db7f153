// Package service coordinates a network scan end to end.
//
// The Discovery service composes the prober, the hostname resolver and the
// known-host ledger into one pipeline: probe the target range, enrich the
// replies with names, reconcile against the target's expected-host list, and
// classify every host as expected, newly seen or missing. The result is a
// self-contained ScanResult the UI can render without further lookups.
//
// Only capability failures (missing privileges, no usable interface, nmap
// absent) surface as a scan-level error. Everything else degrades to
// emptier data: a host without a name is still a host.
package service
