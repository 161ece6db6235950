// Package todo defines the task record and its persisted snapshot format.
//
// A snapshot is the complete task list serialized as a JSON array:
//
//	[
//	  {"text": "buy milk", "completed": true},
//	  {"text": "walk dog", "completed": false}
//	]
//
// Order is significant: a task is addressed by its position in the array.
// An empty list is written as [] and a stored null reads back as an empty list.
//
// # Validation
//
// Snapshots are checked against an embedded JSON Schema (draft 2020-12)
// before they are decoded:
//   - the document must be an array
//   - every element must be an object with a string "text"
//   - "completed", when present, must be a boolean
//
// Unknown object keys are tolerated so snapshots written by other front ends
// keep loading.
package todo
