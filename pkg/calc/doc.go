/*
Package calc is the illustrative arithmetic graph: a router node repeatedly
picks the next reducible operation (innermost brackets first, then leftmost)
and dispatches it to an operation node, until the expression collapses to a
single number.

Operation nodes delegate to a Worker, which stands in for an external
collaborator such as an LLM-backed agent. The provided LocalWorker evaluates
in-process and also serves as the deterministic fallback when a worker fails.
*/
package calc
