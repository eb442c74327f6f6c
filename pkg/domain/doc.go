/*
Package domain contains the core domain models for the Lattice engine.

It defines the fundamental entities of the state machine: Nodes, Edges
(plain and conditional), the execution State with its per-field merge
Schema, the error taxonomy, and lifecycle events. This package is kept pure
and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Node: a named step bound to an Action callable.
  - Edge / ConditionalEdge: directed transitions; conditional edges route
    through a decision function over the current state.
  - State / Schema: the mutable data threaded through execution and the
    declared merge strategy (Overwrite, Append, Sum) per field.
  - Start / End: sentinel node names marking entry and termination.
*/
package domain
