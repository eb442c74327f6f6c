/*
Package observability bridges engine lifecycle hooks to Prometheus
collectors: invocations by outcome, steps by node, and step duration.

The package never starts an exposition endpoint; callers decide whether and
how to publish the registry.
*/
package observability
