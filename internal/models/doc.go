// Package models defines the persistent domain models for MintSense.
//
// # Models
//
//   - User: Registered account that owns groups
//   - Group: A set of participants sharing expenses, owned by one user
//   - Participant: A person in a group, optionally linked to a User
//   - Expense: A payment fronted by one participant and split among others
//   - ExpenseShare: One participant's allocated portion of an expense
//   - Settlement: A real-world payment recorded between two participants
//
// # Design Principles
//
// 1. **Amounts are cents**: every monetary field is a money.Cents, never a float
// 2. **Shares are stored, not recomputed**: the split is allocated once at write time
// 3. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 4. **Balances are derived**: nothing here stores a balance; see package calculator
package models
