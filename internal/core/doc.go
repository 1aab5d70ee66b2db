// Package core provides the business logic for managing user records.
//
// It is independent of any transport: the HTTP handlers in package web and
// the userctl CLI both drive the same [Service], which talks to persistence
// only through the [Store] interface.
//
// # Operations
//
//   - Listing: [Service.ListUsers] pages through users in insertion order.
//   - Single records: [Service.GetUser], [Service.CreateUser],
//     [Service.UpdateUser] and [Service.DeleteUser].
//   - Bulk create: [Service.ParseBulkPayload] followed by [Service.BulkCreate].
//   - Seeding: [Service.Seed] generates synthetic users with unique emails.
//
// # Bulk Pipeline
//
// A bulk request passes a series of gates. A failing gate rejects the whole
// request and nothing is written:
//
//  1. Shape: the payload must be a non-empty array of at most BulkMax records.
//  2. Validation: every record is checked and all failures are reported by index.
//  3. Duplicates: emails already held by stored users are reported.
//  4. Insert: rows are written in chunks without stopping at a failing row.
//
// Emails repeated inside one batch are not rejected at gate 3. The store's
// unique index keeps the first occurrence and the reported count reflects
// the rows actually written.
//
// # Errors
//
// Client errors are sentinels ([ErrNotFound], [ErrInvalidID],
// [ErrEmailExists], [ErrTooManyBulkOps]) or typed errors ([ValidationError],
// [InputShapeError], [BatchValidationError], [DuplicateEmailsError]).
// Anything else is a server error; [MapError] turns it into a message that
// is safe to show to clients.
package core
