// Package trigger implements composite triggers for windowed stream
// processing. A trigger decides, per window instance, when the accumulated
// input should be emitted as a pane and when the window will never emit
// again.
//
// Triggers form an immutable tree built once before any window exists. Leaf
// triggers (AfterWatermark, ElementCountAtLeast) observe the stream; the
// combinators compose them: InOrder runs its subtriggers sequentially,
// AfterFirst fires when any subtrigger would fire, AfterAll when all would,
// and Forever restarts its subtrigger on every firing and never finishes.
//
// All mutable state lives outside the tree in a state.Store, keyed by
// (window, tree position). Tree positions are assigned by a pre-order walk
// at wrap time and never change, so the same tree is shared by every window
// and every key. When session-style windows merge, each node reconciles its
// state across the merging windows through OnMerge; a finished subtrigger
// can come back to life this way, which is why element delivery differs
// between merging and non-merging strategies.
//
// The sequential combinator satisfies two algebraic laws:
//
//	InOrder(InOrder(a, b), c) ≡ InOrder(a, b, c) ≡ InOrder(a, InOrder(b, c))
//	InOrder(Forever(a), b)    ≡ Forever(a)
//
// the latter because Forever never finishes, so b never starts.
package trigger
