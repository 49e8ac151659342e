package faustbox

import (
	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
)

// Box constructors over the process-wide context. Each returns the zero Box and
// an error on failure; see the box.Context method of the same name.

func BoxInt(n int) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Int(n) })
}

func BoxReal(x float64) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Real(x) })
}

func BoxWire() (box.Box, error) { return with((*box.Context).Wire) }

func BoxCut() (box.Box, error) { return with((*box.Context).Cut) }

func BoxDelay() (box.Box, error) { return with((*box.Context).Delay) }

func BoxIntCast() (box.Box, error) { return with((*box.Context).IntCast) }

func BoxFloatCast() (box.Box, error) { return with((*box.Context).FloatCast) }

func BoxReadOnlyTable() (box.Box, error) { return with((*box.Context).ReadOnlyTable) }

func BoxWriteReadTable() (box.Box, error) { return with((*box.Context).WriteReadTable) }

func BoxSelect2() (box.Box, error) { return with((*box.Context).Select2) }

func BoxSelect3() (box.Box, error) { return with((*box.Context).Select3) }

func BoxAttach() (box.Box, error) { return with((*box.Context).Attach) }

func BoxWaveform(values ...box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Waveform(values...) })
}

func BoxSoundfile(label string, nchan box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Soundfile(label, nchan) })
}

func BoxFConst(t domain.SType, name, file string) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.FConst(t, name, file) })
}

func BoxFVar(t domain.SType, name, file string) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.FVar(t, name, file) })
}

// BoxBinOp is a binary operator box, arity (2,1).
func BoxBinOp(op domain.Operator) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.BinOp(op) })
}

// Named operator boxes, arity (2,1).
func BoxAdd() (box.Box, error)         { return BoxBinOp(domain.OpAdd) }
func BoxSub() (box.Box, error)         { return BoxBinOp(domain.OpSub) }
func BoxMul() (box.Box, error)         { return BoxBinOp(domain.OpMul) }
func BoxDiv() (box.Box, error)         { return BoxBinOp(domain.OpDiv) }
func BoxRem() (box.Box, error)         { return BoxBinOp(domain.OpRem) }
func BoxLeftShift() (box.Box, error)   { return BoxBinOp(domain.OpLsh) }
func BoxARightShift() (box.Box, error) { return BoxBinOp(domain.OpARsh) }
func BoxLRightShift() (box.Box, error) { return BoxBinOp(domain.OpLRsh) }
func BoxGT() (box.Box, error)          { return BoxBinOp(domain.OpGT) }
func BoxLT() (box.Box, error)          { return BoxBinOp(domain.OpLT) }
func BoxGE() (box.Box, error)          { return BoxBinOp(domain.OpGE) }
func BoxLE() (box.Box, error)          { return BoxBinOp(domain.OpLE) }
func BoxEQ() (box.Box, error)          { return BoxBinOp(domain.OpEQ) }
func BoxNE() (box.Box, error)          { return BoxBinOp(domain.OpNE) }
func BoxAND() (box.Box, error)         { return BoxBinOp(domain.OpAND) }
func BoxOR() (box.Box, error)          { return BoxBinOp(domain.OpOR) }
func BoxXOR() (box.Box, error)         { return BoxBinOp(domain.OpXOR) }

// BoxMath is a math function box of arity (fn.Arity(),1).
func BoxMath(fn domain.MathFunc) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Math(fn) })
}

// Named math boxes, arity (1,1) except the binary Remainder, Pow, Min, Max,
// Fmod and Atan2.
func BoxAbs() (box.Box, error)       { return BoxMath(domain.MathAbs) }
func BoxAcos() (box.Box, error)      { return BoxMath(domain.MathAcos) }
func BoxTan() (box.Box, error)       { return BoxMath(domain.MathTan) }
func BoxSqrt() (box.Box, error)      { return BoxMath(domain.MathSqrt) }
func BoxSin() (box.Box, error)       { return BoxMath(domain.MathSin) }
func BoxRint() (box.Box, error)      { return BoxMath(domain.MathRint) }
func BoxLog() (box.Box, error)       { return BoxMath(domain.MathLog) }
func BoxLog10() (box.Box, error)     { return BoxMath(domain.MathLog10) }
func BoxFloor() (box.Box, error)     { return BoxMath(domain.MathFloor) }
func BoxExp() (box.Box, error)       { return BoxMath(domain.MathExp) }
func BoxExp10() (box.Box, error)     { return BoxMath(domain.MathExp10) }
func BoxCos() (box.Box, error)       { return BoxMath(domain.MathCos) }
func BoxCeil() (box.Box, error)      { return BoxMath(domain.MathCeil) }
func BoxAtan() (box.Box, error)      { return BoxMath(domain.MathAtan) }
func BoxAsin() (box.Box, error)      { return BoxMath(domain.MathAsin) }
func BoxRemainder() (box.Box, error) { return BoxMath(domain.MathRemainder) }
func BoxPow() (box.Box, error)       { return BoxMath(domain.MathPow) }
func BoxMin() (box.Box, error)       { return BoxMath(domain.MathMin) }
func BoxMax() (box.Box, error)       { return BoxMath(domain.MathMax) }
func BoxFmod() (box.Box, error)      { return BoxMath(domain.MathFmod) }
func BoxAtan2() (box.Box, error)     { return BoxMath(domain.MathAtan2) }

func BoxButton(label string) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Button(label) })
}

func BoxCheckbox(label string) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Checkbox(label) })
}

func BoxVSlider(label string, init, lo, hi, step box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.VSlider(label, init, lo, hi, step) })
}

func BoxHSlider(label string, init, lo, hi, step box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.HSlider(label, init, lo, hi, step) })
}

func BoxNumEntry(label string, init, lo, hi, step box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.NumEntry(label, init, lo, hi, step) })
}

func BoxVBargraph(label string, lo, hi box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.VBargraph(label, lo, hi) })
}

func BoxHBargraph(label string, lo, hi box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.HBargraph(label, lo, hi) })
}

func BoxSeq(a, b box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Seq(a, b) })
}

func BoxPar(a, b box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Par(a, b) })
}

func BoxSplit(a, b box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Split(a, b) })
}

func BoxMerge(a, b box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Merge(a, b) })
}

func BoxRec(a, b box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Rec(a, b) })
}

func BoxRoute(n, m, r box.Box) (box.Box, error) {
	return with(func(c *box.Context) (box.Box, error) { return c.Route(n, m, r) })
}
