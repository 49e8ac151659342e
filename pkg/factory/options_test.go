package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Options
	}{
		{
			name: "defaults",
			argv: nil,
			want: Options{Precision: PrecisionSingle, ClassName: DefaultClassName},
		},
		{
			name: "known flags",
			argv: []string{"-double", "-I", "/usr/share/dsp", "-Ilib", "-cn", "Reverb"},
			want: Options{Precision: PrecisionDouble, IncludeDirs: []string{"/usr/share/dsp", "lib"}, ClassName: "Reverb"},
		},
		{
			name: "unknown flags are kept in order",
			argv: []string{"-vec", "-vs", "32", "-single", "-lang", "cpp"},
			want: Options{Precision: PrecisionSingle, ClassName: DefaultClassName, Extra: []string{"-vec", "-vs", "32", "-lang", "cpp"}},
		},
		{
			name: "equals form",
			argv: []string{"-cn=Synth", "-I=dsp"},
			want: Options{Precision: PrecisionSingle, IncludeDirs: []string{"dsp"}, ClassName: "Synth"},
		},
		{
			name: "equals form mixed with attached and separate dirs",
			argv: []string{"-I=a", "-Ib", "-I", "c", "--I=d", "-double=true"},
			want: Options{Precision: PrecisionDouble, IncludeDirs: []string{"a", "b", "c", "d"}, ClassName: DefaultClassName},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := ParseArgs([]string{"-single", "-double"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = ParseArgs([]string{"-cn"})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestOptions_Args(t *testing.T) {
	opts, err := ParseArgs([]string{"-vec", "-cn", "Synth", "-double", "-I", "dsp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-double", "-I", "dsp", "-cn", "Synth", "-vec"}, opts.Args())

	again, err := ParseArgs(opts.Args())
	require.NoError(t, err)
	assert.Equal(t, opts, again)

	assert.Equal(t, []string{"dsp", "."}, opts.SearchPath())
	assert.Contains(t, Usage(), "import-dir")
}
