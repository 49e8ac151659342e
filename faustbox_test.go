package faustbox_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/faustbox"
	"github.com/aretw0/faustbox/pkg/box"
	"github.com/aretw0/faustbox/pkg/domain"
	"github.com/aretw0/faustbox/pkg/factory"
)

func setupLib(t *testing.T) {
	t.Helper()
	require.NoError(t, faustbox.CreateLibContext())
	t.Cleanup(func() { _ = faustbox.DestroyLibContext() })
}

func must(t *testing.T) func(box.Box, error) box.Box {
	return func(b box.Box, err error) box.Box {
		t.Helper()
		require.NoError(t, err)
		return b
	}
}

// echo is out = in0 + 0.5 * out'.
func echo(t *testing.T) box.Box {
	m := must(t)
	gain := m(faustbox.BoxSeq(m(faustbox.BoxPar(m(faustbox.BoxWire()), m(faustbox.BoxReal(0.5)))), m(faustbox.BoxMul())))
	return m(faustbox.BoxRec(m(faustbox.BoxAdd()), gain))
}

func TestLibContext_Lifecycle(t *testing.T) {
	assert.ErrorIs(t, faustbox.DestroyLibContext(), domain.ErrContextLifecycle)

	require.NoError(t, faustbox.CreateLibContext())
	assert.ErrorIs(t, faustbox.CreateLibContext(), domain.ErrContextLifecycle)

	one, err := faustbox.BoxInt(1)
	require.NoError(t, err)

	require.NoError(t, faustbox.DestroyLibContext())

	_, err = faustbox.BoxInt(1)
	assert.ErrorIs(t, err, domain.ErrContextLifecycle)

	var msg string
	assert.Nil(t, faustbox.BoxesToSignals(one, &msg))
	assert.Contains(t, msg, "no library context")
}

func TestBoxesToSignals(t *testing.T) {
	setupLib(t)

	msg := "untouched"
	sigs := faustbox.BoxesToSignals(echo(t), &msg)
	require.Len(t, sigs, 1)
	assert.Equal(t, "untouched", msg)
	assert.Equal(t, "((tap0 * 0.5) + in0)", faustbox.PrintSignal(sigs[0]))

	again := faustbox.BoxesToSignals(echo(t), &msg)
	assert.Equal(t, sigs, again, "compiling the same box twice returns the same signals")
}

func TestBoxesToSignals_Error(t *testing.T) {
	setupLib(t)
	m := must(t)

	ext := m(faustbox.BoxFVar(domain.TypeReal, "fGain", "missing_header.h"))
	root := m(faustbox.BoxPar(ext, m(faustbox.BoxWire())))

	var msg string
	assert.Nil(t, faustbox.BoxesToSignals(root, &msg))
	assert.Contains(t, msg, "unresolved foreign reference")

	_, err := faustbox.Compile(root)
	assert.ErrorIs(t, err, domain.ErrUnresolvedForeignReference)
	assert.Len(t, domain.Diagnostics(err), 1)
}

func TestConstructionErrors(t *testing.T) {
	setupLib(t)
	m := must(t)

	_, err := faustbox.BoxSeq(m(faustbox.BoxCut()), m(faustbox.BoxWire()))
	assert.ErrorIs(t, err, domain.ErrArityMismatch)

	_, err = faustbox.BoxRoute(m(faustbox.BoxInt(1)), m(faustbox.BoxInt(1)), m(faustbox.BoxPar(m(faustbox.BoxInt(1)), m(faustbox.BoxInt(2)))))
	assert.ErrorIs(t, err, domain.ErrRoutingIndexOutOfRange)

	assert.Equal(t, "seq(par(_, 0.5), *)", faustbox.PrintBox(m(faustbox.BoxSeq(m(faustbox.BoxPar(m(faustbox.BoxWire()), m(faustbox.BoxReal(0.5)))), m(faustbox.BoxMul())))))
}

func TestNamedPrimitives(t *testing.T) {
	setupLib(t)
	ctx, err := faustbox.LibContext()
	require.NoError(t, err)

	operators := map[domain.Operator]func() (box.Box, error){
		domain.OpAdd: faustbox.BoxAdd, domain.OpSub: faustbox.BoxSub, domain.OpMul: faustbox.BoxMul,
		domain.OpDiv: faustbox.BoxDiv, domain.OpRem: faustbox.BoxRem, domain.OpLsh: faustbox.BoxLeftShift,
		domain.OpARsh: faustbox.BoxARightShift, domain.OpLRsh: faustbox.BoxLRightShift,
		domain.OpGT: faustbox.BoxGT, domain.OpLT: faustbox.BoxLT, domain.OpGE: faustbox.BoxGE,
		domain.OpLE: faustbox.BoxLE, domain.OpEQ: faustbox.BoxEQ, domain.OpNE: faustbox.BoxNE,
		domain.OpAND: faustbox.BoxAND, domain.OpOR: faustbox.BoxOR, domain.OpXOR: faustbox.BoxXOR,
	}
	for op, named := range operators {
		t.Run(op.String(), func(t *testing.T) {
			m := must(t)
			assert.Equal(t, m(faustbox.BoxBinOp(op)), m(named()))
		})
	}

	functions := map[domain.MathFunc]func() (box.Box, error){
		domain.MathAbs: faustbox.BoxAbs, domain.MathAcos: faustbox.BoxAcos, domain.MathTan: faustbox.BoxTan,
		domain.MathSqrt: faustbox.BoxSqrt, domain.MathSin: faustbox.BoxSin, domain.MathRint: faustbox.BoxRint,
		domain.MathLog: faustbox.BoxLog, domain.MathLog10: faustbox.BoxLog10, domain.MathFloor: faustbox.BoxFloor,
		domain.MathExp: faustbox.BoxExp, domain.MathExp10: faustbox.BoxExp10, domain.MathCos: faustbox.BoxCos,
		domain.MathCeil: faustbox.BoxCeil, domain.MathAtan: faustbox.BoxAtan, domain.MathAsin: faustbox.BoxAsin,
		domain.MathRemainder: faustbox.BoxRemainder, domain.MathPow: faustbox.BoxPow, domain.MathMin: faustbox.BoxMin,
		domain.MathMax: faustbox.BoxMax, domain.MathFmod: faustbox.BoxFmod, domain.MathAtan2: faustbox.BoxAtan2,
	}
	for fn, named := range functions {
		t.Run(fn.String(), func(t *testing.T) {
			m := must(t)
			b := m(named())
			assert.Equal(t, m(faustbox.BoxMath(fn)), b)
			a, err := ctx.Arity(b)
			require.NoError(t, err)
			assert.Equal(t, domain.Arity{Inputs: fn.Arity(), Outputs: 1}, a)
		})
	}
}

func TestCreateCPPDSPFactoryFromBoxes(t *testing.T) {
	setupLib(t)
	root := echo(t)

	var msg string
	f := faustbox.CreateCPPDSPFactoryFromBoxes("echo", root, []string{"-double"}, &msg)
	require.NotNil(t, f, msg)
	assert.Empty(t, msg)
	assert.Equal(t, "echo", f.Name)
	assert.Len(t, f.SHAKey, 40)
	assert.Equal(t, domain.Arity{Inputs: 1, Outputs: 1}, f.Arity)
	assert.Equal(t, "double", f.Options.Precision)
	require.NoError(t, f.Program.Validate())

	same := faustbox.CreateCPPDSPFactoryFromBoxes("echo", root, []string{"-double"}, &msg)
	require.NotNil(t, same)
	assert.Equal(t, f.SHAKey, same.SHAKey)
	assert.True(t, f.CreatedAt.Equal(same.CreatedAt), "identical keys come from the cache")

	single := faustbox.CreateCPPDSPFactoryFromBoxes("echo", root, []string{"-single"}, &msg)
	require.NotNil(t, single)
	assert.NotEqual(t, f.SHAKey, single.SHAKey)

	cached := faustbox.GetCPPDSPFactoryFromSHAKey(f.SHAKey)
	require.NotNil(t, cached)
	assert.Equal(t, f.SHAKey, cached.SHAKey)
	assert.Nil(t, faustbox.GetCPPDSPFactoryFromSHAKey("0000"))

	assert.Nil(t, faustbox.CreateCPPDSPFactoryFromBoxes("echo", root, []string{"-single", "-double"}, &msg))
	assert.NotEmpty(t, msg)
}

func TestCreateCPPDSPFactoryFromBoxes_StableAcrossContexts(t *testing.T) {
	var msg string

	require.NoError(t, faustbox.CreateLibContext())
	first := faustbox.CreateCPPDSPFactoryFromBoxes("echo", echo(t), nil, &msg)
	require.NotNil(t, first, msg)
	require.NoError(t, faustbox.DestroyLibContext())

	setupLib(t)
	second := faustbox.CreateCPPDSPFactoryFromBoxes("echo", echo(t), nil, &msg)
	require.NotNil(t, second, msg)
	assert.Equal(t, first.SHAKey, second.SHAKey)
}

func TestFactory_WriteRead(t *testing.T) {
	setupLib(t)

	var msg string
	f := faustbox.CreateCPPDSPFactoryFromBoxes("echo", echo(t), nil, &msg)
	require.NotNil(t, f, msg)

	for _, binary := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf, binary, false))

		back, err := factory.Read(&buf, binary)
		require.NoError(t, err)
		assert.Equal(t, f.SHAKey, back.SHAKey)
		assert.Equal(t, f.Program, back.Program)
	}
}
