/*
Package observability turns the lifecycle hooks of a box context into metrics and logs.

Metrics registers Prometheus collectors and exposes them as domain.Hooks. LogHooks
reports the same events through slog. Chain combines several hook sets, so both can
observe one context.
*/
package observability
