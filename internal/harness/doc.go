// Package harness builds the two demo variants under a pinned compiler
// profile and compares their instruction listings.
//
// # Build
//
// Each variant is compiled twice: once to an executable under the bin
// directory, once with the profile's listing flags to capture the -S dump.
// The dump is normalized (see internal/asm) and persisted next to the
// variant source as its artifact, so two runs under the same profile
// produce byte-identical artifacts.
//
// # Compare
//
// A Report holds both artifacts, their instruction counts, and a verdict:
//
//   - equal: the normalized listings are byte-identical
//   - zero_overhead: listings differ but the abstraction variant needs no
//     more instructions than the plain one
//   - overhead: the abstraction variant is larger; the gap is the
//     regression signal (typically broken monomorphism blocking
//     devirtualization and constant folding)
//
// The toolchain is an opaque oracle. A nonzero exit aborts the build and
// its diagnostics are surfaced as-is; there is no retry or recovery.
package harness
