package contracts

import "github.com/meysamhadeli/stepdiff/diff_engine"

type IDiffStats interface {
	Record(step int, path string, lines []diff_engine.Line)
	DisplayStats()
	DisplayLiveStats(lines []diff_engine.Line)
	GetCurrentStats() (added int, removed int, changed int)
	ClearStats()
}
