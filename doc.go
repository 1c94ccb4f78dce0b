// Package indexseq provides an ordered, index-addressable sequence backed by a
// single growable buffer.
//
// Items live in an inclusive logical window [FirstIndex, LastIndex] that may
// start at any integer. Appends extend the window upward, prepends extend it
// downward, and removing the first item moves FirstIndex up, so the remaining
// items keep their indices. Positional inserts and removals shift what follows.
//
// Features:
//
//   - **Pluggable growth**: capacity strategies decide how the buffer grows
//     (`Minimal` exact fit or `Amortized` doubling).
//   - **Cheap ends**: inserts and removals shift whichever side of the data is shorter.
//   - **Traversers**: bidirectional cursors that can replace, insert and remove
//     items, and fail with `ErrStaleTraverser` once the sequence changes behind them.
//   - **Observers**: every mutator has an observed form that commits first and
//     then notifies observers in order. A failing observer never undoes a change.
//   - **Non-empty sequences**: `NonEmpty` refuses any removal of its last item.
//
// Usage:
//
//	seq := indexseq.Of([]string{"a", "b", "c"}, indexseq.WithFirstIndex(1))
//	_ = seq.Insert(2, "x") // a x b c
//
//	t := seq.Traverser()
//	for t.HasNext() {
//		v, _ := t.Next()
//		fmt.Println(v)
//	}
//
// A sequence is meant for a single goroutine that writes to it; it does no locking.
package indexseq
