// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free from
// ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by owned tables
//   - settlement.go: settlements, settlement_line_items, settlement_deposits
//   - external.go: read-only tables owned by other services (workers, orders,
//     credit_payments, payment_methods)
package models
