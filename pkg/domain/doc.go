/*
Package domain contains the core domain models of the abacus calculator engine.

It defines the calculation state, the closed set of input events and operator
tags, the error taxonomy and the observability hooks. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - State: the single aggregate reduced by the engine (display, equation, pending operator, memory, modes, error).
  - Event: one discrete user action (digit, operator, memory key, toggle, equals).
  - BinaryOperator, UnaryOperator, Constant, MemoryOperator: closed operator tags.
  - CalcError: a recoverable math or system error folded into the State.
  - StateDiff: the visible changes between two states, used by streaming hosts.
*/
package domain
