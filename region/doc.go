// Package region defines the on-flash layout of a persisted crash snapshot.
//
// # Layout
//
// A snapshot region starts at the first erase-block boundary after the
// firmware image. Block 0 holds the metadata block, the following blocks
// hold a verbatim copy of RAM:
//
//	offset 0            [MAGIC(4)][FAULT INFO(28)][STACK_LO(4)][STACK_HI(4)]
//	offset BlockSize    [RAM IMAGE ...]
//
// All words are little-endian, matching the target CPU.
//
// # Sentinel
//
// The first word of the metadata block is the sentinel. It classifies the
// whole region into one of three states:
//   - StateErased: the word reads as erased flash (0xFFFFFFFF)
//   - StateValid: the word equals Magic
//   - StateForeign: anything else
//
// Classify is the only place that interprets the sentinel. Callers switch on
// the returned State rather than comparing words themselves.
package region
