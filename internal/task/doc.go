// Package task defines the task record held by the registry.
//
// A task carries an immutable id, a free-form description, a priority and a
// completion flag:
//
//	{
//	  "id": 3,
//	  "description": "Renew passport",
//	  "priority": 5,
//	  "completed": false
//	}
//
// # Priority Range
//
//   - 1: Lowest priority
//   - 5: Highest priority
//
// Values outside the range are rejected with ErrInvalidPriority, never
// clamped.
//
// # Ordering
//
// Less orders tasks by priority descending, then id ascending. The order is
// total: two distinct tasks never compare equal, so listings are deterministic.
package task
