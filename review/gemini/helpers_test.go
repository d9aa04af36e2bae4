package gemini

import (
	"context"

	"github.com/ByLCY/ledcad/design"
)

type staticKey string

func (s staticKey) Key(context.Context) (string, error) { return string(s), nil }

func designParams() design.Params {
	return design.Params{CanvasWidthCm: 20, CanvasHeightCm: 10, LEDDiameterMm: 5, LEDSpacingMm: 10, ExportOption: design.Both}
}
