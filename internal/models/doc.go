// Package models defines the domain models for WildPay.
//
// # Models
//
//   - User: registered account; group members are users.
//   - Member: a user as seen from inside one group (id + display name).
//   - Group: a set of members sharing expenditures.
//   - Expenditure: one payment made by a payer on behalf of contributors.
//   - Debt: computed instruction for one member to pay another.
//   - SettlementResult: balances, debts and status for one group snapshot.
//
// # Design Principles
//
// 1. Relationships are ID strings, never pointers.
// 2. Optional values are explicit types (see Payer), not sentinels.
// 3. Computed values (Debt, SettlementResult) are never persisted.
package models
