package domain

import "math"

// Operator is a binary primitive operator.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpLsh
	OpARsh
	OpLRsh
	OpGT
	OpLT
	OpGE
	OpLE
	OpEQ
	OpNE
	OpAND
	OpOR
	OpXOR
	numOperators
)

var operatorInfo = [numOperators]struct {
	name   string
	symbol string
}{
	OpAdd:  {"add", "+"},
	OpSub:  {"sub", "-"},
	OpMul:  {"mul", "*"},
	OpDiv:  {"div", "/"},
	OpRem:  {"rem", "%"},
	OpLsh:  {"lsh", "<<"},
	OpARsh: {"arsh", ">>"},
	OpLRsh: {"lrsh", ">>>"},
	OpGT:   {"gt", ">"},
	OpLT:   {"lt", "<"},
	OpGE:   {"ge", ">="},
	OpLE:   {"le", "<="},
	OpEQ:   {"eq", "=="},
	OpNE:   {"ne", "!="},
	OpAND:  {"and", "&"},
	OpOR:   {"or", "|"},
	OpXOR:  {"xor", "^"},
}

func (o Operator) Valid() bool { return o < numOperators }

func (o Operator) String() string {
	if !o.Valid() {
		return "unknown"
	}
	return operatorInfo[o].name
}

// Symbol returns the infix notation of the operator.
func (o Operator) Symbol() string {
	if !o.Valid() {
		return "?"
	}
	return operatorInfo[o].symbol
}

// Comparison reports whether the operator yields a boolean (0/1) integer.
func (o Operator) Comparison() bool {
	return o >= OpGT && o <= OpNE
}

// Integral reports whether the operator is only defined on integers.
func (o Operator) Integral() bool {
	switch o {
	case OpLsh, OpARsh, OpLRsh, OpAND, OpOR, OpXOR:
		return true
	}
	return false
}

// ParseOperator looks up an operator by its lower-case name.
func ParseOperator(name string) (Operator, bool) {
	for i := Operator(0); i < numOperators; i++ {
		if operatorInfo[i].name == name {
			return i, true
		}
	}
	return 0, false
}

// MathFunc is a transcendental or rounding primitive.
type MathFunc uint8

const (
	MathAbs MathFunc = iota
	MathAcos
	MathTan
	MathSqrt
	MathSin
	MathRint
	MathLog
	MathLog10
	MathFloor
	MathExp
	MathExp10
	MathCos
	MathCeil
	MathAtan
	MathAsin
	MathRemainder
	MathPow
	MathMin
	MathMax
	MathFmod
	MathAtan2
	numMathFuncs
)

var mathNames = [numMathFuncs]string{
	MathAbs:       "abs",
	MathAcos:      "acos",
	MathTan:       "tan",
	MathSqrt:      "sqrt",
	MathSin:       "sin",
	MathRint:      "rint",
	MathLog:       "log",
	MathLog10:     "log10",
	MathFloor:     "floor",
	MathExp:       "exp",
	MathExp10:     "exp10",
	MathCos:       "cos",
	MathCeil:      "ceil",
	MathAtan:      "atan",
	MathAsin:      "asin",
	MathRemainder: "remainder",
	MathPow:       "pow",
	MathMin:       "min",
	MathMax:       "max",
	MathFmod:      "fmod",
	MathAtan2:     "atan2",
}

func (f MathFunc) Valid() bool { return f < numMathFuncs }

func (f MathFunc) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return mathNames[f]
}

// Arity returns the number of operands the function takes (1 or 2).
func (f MathFunc) Arity() int {
	if f >= MathRemainder {
		return 2
	}
	return 1
}

// Eval applies the function to constant operands. b is ignored for unary functions.
func (f MathFunc) Eval(a, b float64) float64 {
	switch f {
	case MathAbs:
		return math.Abs(a)
	case MathAcos:
		return math.Acos(a)
	case MathTan:
		return math.Tan(a)
	case MathSqrt:
		return math.Sqrt(a)
	case MathSin:
		return math.Sin(a)
	case MathRint:
		return math.RoundToEven(a)
	case MathLog:
		return math.Log(a)
	case MathLog10:
		return math.Log10(a)
	case MathFloor:
		return math.Floor(a)
	case MathExp:
		return math.Exp(a)
	case MathExp10:
		return math.Pow(10, a)
	case MathCos:
		return math.Cos(a)
	case MathCeil:
		return math.Ceil(a)
	case MathAtan:
		return math.Atan(a)
	case MathAsin:
		return math.Asin(a)
	case MathRemainder:
		return math.Remainder(a, b)
	case MathPow:
		return math.Pow(a, b)
	case MathMin:
		return math.Min(a, b)
	case MathMax:
		return math.Max(a, b)
	case MathFmod:
		return math.Mod(a, b)
	case MathAtan2:
		return math.Atan2(a, b)
	}
	return math.NaN()
}

// ParseMathFunc looks up a math function by its lower-case name.
func ParseMathFunc(name string) (MathFunc, bool) {
	for i := MathFunc(0); i < numMathFuncs; i++ {
		if mathNames[i] == name {
			return i, true
		}
	}
	return 0, false
}

// SType is the scalar type of a foreign constant or variable.
type SType uint8

const (
	TypeInt SType = iota
	TypeReal
)

func (t SType) String() string {
	if t == TypeReal {
		return "real"
	}
	return "int"
}

// ParseSType accepts "int" and "real" ("float" is an alias of "real").
func ParseSType(name string) (SType, bool) {
	switch name {
	case "int":
		return TypeInt, true
	case "real", "float":
		return TypeReal, true
	}
	return 0, false
}
