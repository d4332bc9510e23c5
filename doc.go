// Package fpa answers natural-language questions about a company's monthly
// financials. It is designed to be deterministic, auditable, and small: a
// question is matched against a fixed set of intents, computed from in-memory
// tables, and returned as a structured result the presentation layer can
// render without recomputation.
//
// The core functionalities include:
//   - Table Model: typed, read-only representations of the actuals, budget,
//     FX and cash tables loaded once per session.
//   - Currency Normalization: spot conversion of any amount to the reporting
//     currency (USD) using exact-month FX rates.
//   - Metric Calculators: pure functions computing revenue, COGS, gross
//     margin, opex (total and by category), EBITDA and cash runway over a
//     requested range of months.
//   - Intent Classification: keyword routing of a free-text question to an
//     intent plus extracted parameters (month, window, entity, category).
//   - Query Orchestration: dispatching an intent to the right calculators
//     and assembling a display-agnostic result with chart metadata.
//
// This package serves as the foundational logic for the `cfo` command-line
// tool, ensuring that every answer is derived from a single source of truth.
package fpa
