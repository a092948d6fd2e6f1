package board

import "math/bits"

// popcnt64 and trailingZeros64 wrap math/bits so the rest of the package
// reads the way zurichess's engine package does, which dot-imported these
// same primitives from its own small bitbucket.org/zurichess/board module.
// That module isn't part of this tree, so math/bits supplies them directly.
func popcnt64(x uint64) int        { return bits.OnesCount64(x) }
func trailingZeros64(x uint64) int { return bits.TrailingZeros64(x) }
