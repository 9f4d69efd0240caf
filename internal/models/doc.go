// Package models defines the core domain models for Kantine.
//
// # Models
//
//   - Meal: a numbered, priced offering on one weekday's menu
//   - Week: one week of data (menu per weekday, orders per participant)
//   - AppState: the root aggregate (current week plus at most one archived week)
//
// Participants are identified by name strings; there are no user accounts.
//
// # Design Principles
//
// 1. **Raw prices**: prices are kept exactly as entered (string) and only
// normalized at aggregation time by the billing package
//
// 2. **Value semantics**: an order holds a copy of the chosen Meal, so later
// menu edits never rewrite what a participant already ordered
//
// 3. **Snapshot isolation**: the archived week is never aliased with the
// current one; Clone produces fully independent copies
package models
