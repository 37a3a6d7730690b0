// Package snapshot moves todo lists in and out of a storage.ListRepository as
// YAML documents.
//
// A snapshot looks like:
//
//	lists:
//	  - name: Groceries
//	    todos:
//	      - name: Milk
//	        completed: true
//	      - name: Eggs
//	        completed: false
//
// Export reads every list with its todos. An Importer validates the whole
// document up front, skipping lists whose names are invalid, already taken in
// the target, or repeated earlier in the document, then writes the remaining
// lists concurrently on an ants worker pool. Each worker opens its own
// repository, retrying the open with exponential backoff; statements are
// never retried.
package snapshot
