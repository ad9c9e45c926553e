// Package fuzztests houses Go fuzz harnesses for the lowering pipeline
// (unit decoding -> assignment translation). They guard against panics on
// arbitrary inputs and check that every body the translator accepts is
// structurally sound.
package fuzztests
