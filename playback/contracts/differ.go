package contracts

import "github.com/meysamhadeli/stepdiff/diff_engine"

// IDiffer turns a pair of snapshots of one file into display lines. first is true for the first step of a
// sequence.
type IDiffer interface {
	Diff(previous string, current string, first bool) []diff_engine.Line
}
