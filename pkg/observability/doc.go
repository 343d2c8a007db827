/*
Package observability provides monitoring for the abacus engine.

Metrics turns lifecycle hooks into Prometheus counters and exposes them over
HTTP. LogHooks writes the same events as structured log records, and Chain
combines several hook sets so a host can record and log at once.
*/
package observability
