package infer

import (
	"github.com/vela-lang/vela/internal/data"
	"github.com/vela-lang/vela/internal/types"
)

// dataVariantsView adapts the engine's data table to types.DataVariants for
// AccessC's non-inference field-access walk through data-type
// indirections.
func dataVariantsView(e *Engine) types.DataVariants {
	return data.VariantsView{Table: e.Datas, Store: e.Store}
}
