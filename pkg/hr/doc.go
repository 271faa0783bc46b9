// Package hr models the employment lifecycle: an Employee aggregate
// owning document metadata and onboarding/offboarding checklists.
//
// Employees are hired into Onboarding with a default task checklist and
// become Active when the last task completes. Offboarding works the same
// way in reverse, ending in Terminated, which is terminal. Documents are
// versioned per type, never deleted, and archival is idempotent.
//
// The aggregate exposes its collections only as copies; all mutation
// goes through methods so invariants (version numbering, terminal-state
// guards, checklist-driven status changes) cannot be bypassed.
package hr
