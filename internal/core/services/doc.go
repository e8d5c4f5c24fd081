// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Aggregation services are pure functions over domain types. The analysis
// service adds run IDs (google/uuid) and bounded fan-out (errgroup).
package services
