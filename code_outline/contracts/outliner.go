package contracts

import (
	"context"

	"github.com/meysamhadeli/stepdiff/code_outline/models"
	"github.com/meysamhadeli/stepdiff/diff_engine"
)

type IOutliner interface {
	Outline(ctx context.Context, path string, source []byte) (*models.Outline, error)
	TouchedSymbols(outline *models.Outline, lines []diff_engine.Line) []models.Symbol
}
