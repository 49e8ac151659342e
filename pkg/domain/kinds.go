package domain

// BoxKind identifies a box variant. The set is closed: every switch over it is exhaustive.
type BoxKind uint8

const (
	BoxInvalid BoxKind = iota

	// Leaves
	BoxInt
	BoxReal
	BoxWire
	BoxCut
	BoxDelay
	BoxIntCast
	BoxFloatCast
	BoxReadOnlyTable
	BoxWriteReadTable
	BoxWaveform
	BoxSoundfile
	BoxSelect2
	BoxSelect3
	BoxFConst
	BoxFVar
	BoxBinOp
	BoxMath
	BoxButton
	BoxCheckbox
	BoxVSlider
	BoxHSlider
	BoxNumEntry
	BoxVBargraph
	BoxHBargraph
	BoxAttach

	// Composites
	BoxSeq
	BoxPar
	BoxSplit
	BoxMerge
	BoxRec
	BoxRoute
)

var boxKindNames = [...]string{
	BoxInvalid:        "invalid",
	BoxInt:            "int",
	BoxReal:           "real",
	BoxWire:           "wire",
	BoxCut:            "cut",
	BoxDelay:          "delay",
	BoxIntCast:        "intcast",
	BoxFloatCast:      "floatcast",
	BoxReadOnlyTable:  "rdtable",
	BoxWriteReadTable: "rwtable",
	BoxWaveform:       "waveform",
	BoxSoundfile:      "soundfile",
	BoxSelect2:        "select2",
	BoxSelect3:        "select3",
	BoxFConst:         "fconst",
	BoxFVar:           "fvar",
	BoxBinOp:          "binop",
	BoxMath:           "math",
	BoxButton:         "button",
	BoxCheckbox:       "checkbox",
	BoxVSlider:        "vslider",
	BoxHSlider:        "hslider",
	BoxNumEntry:       "nentry",
	BoxVBargraph:      "vbargraph",
	BoxHBargraph:      "hbargraph",
	BoxAttach:         "attach",
	BoxSeq:            "seq",
	BoxPar:            "par",
	BoxSplit:          "split",
	BoxMerge:          "merge",
	BoxRec:            "rec",
	BoxRoute:          "route",
}

func (k BoxKind) String() string {
	if int(k) < len(boxKindNames) {
		return boxKindNames[k]
	}
	return "unknown"
}

// IsComposite reports whether k is one of the composition operators.
func (k BoxKind) IsComposite() bool {
	return k >= BoxSeq && k <= BoxRoute
}

// ParseBoxKind is the inverse of BoxKind.String.
func ParseBoxKind(name string) (BoxKind, bool) {
	for k, n := range boxKindNames {
		if n == name && k != int(BoxInvalid) {
			return BoxKind(k), true
		}
	}
	return BoxInvalid, false
}

// SignalKind identifies a signal node variant.
type SignalKind uint8

const (
	SigInvalid SignalKind = iota
	SigInt
	SigReal
	SigInput
	SigBinOp
	SigMath
	SigIntCast
	SigFloatCast
	SigDelay
	SigTap
	SigSelect2
	SigSelect3
	SigFConst
	SigFVar
	SigButton
	SigCheckbox
	SigVSlider
	SigHSlider
	SigNumEntry
	SigVBargraph
	SigHBargraph
	SigAttach
	SigReadOnlyTable
	SigWriteReadTable
	SigWaveform
	SigSoundfile
	SigSoundfileLength
	SigSoundfileRate
	SigSoundfileBuffer
)

var signalKindNames = [...]string{
	SigInvalid:         "invalid",
	SigInt:             "int",
	SigReal:            "real",
	SigInput:           "input",
	SigBinOp:           "binop",
	SigMath:            "math",
	SigIntCast:         "intcast",
	SigFloatCast:       "floatcast",
	SigDelay:           "delay",
	SigTap:             "tap",
	SigSelect2:         "select2",
	SigSelect3:         "select3",
	SigFConst:          "fconst",
	SigFVar:            "fvar",
	SigButton:          "button",
	SigCheckbox:        "checkbox",
	SigVSlider:         "vslider",
	SigHSlider:         "hslider",
	SigNumEntry:        "nentry",
	SigVBargraph:       "vbargraph",
	SigHBargraph:       "hbargraph",
	SigAttach:          "attach",
	SigReadOnlyTable:   "rdtable",
	SigWriteReadTable:  "rwtable",
	SigWaveform:        "waveform",
	SigSoundfile:       "soundfile",
	SigSoundfileLength: "soundfile_length",
	SigSoundfileRate:   "soundfile_rate",
	SigSoundfileBuffer: "soundfile_buffer",
}

func (k SignalKind) String() string {
	if int(k) < len(signalKindNames) {
		return signalKindNames[k]
	}
	return "unknown"
}

// ParseSignalKind is the inverse of SignalKind.String.
func ParseSignalKind(name string) (SignalKind, bool) {
	for k, n := range signalKindNames {
		if n == name && k != int(SigInvalid) {
			return SignalKind(k), true
		}
	}
	return SigInvalid, false
}
