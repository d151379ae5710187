// Package event defines the canonical event record shared by every extraction path.
//
// The event package owns the fixed output shape (EnsureShape), the field-wise
// "first non-empty wins" merge used to backfill one partial record from another
// (MergeFields), and the richness predicate that gates tier escalation (IsRich).
package event
