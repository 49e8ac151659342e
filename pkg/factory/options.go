package factory

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Precision of the generated code.
const (
	PrecisionSingle = "single"
	PrecisionDouble = "double"
)

// Options are the compiler flags understood by the factory. Anything else in the
// argument vector is kept verbatim in Extra.
type Options struct {
	Precision   string   `json:"precision" msgpack:"precision"`
	IncludeDirs []string `json:"include_dirs,omitempty" msgpack:"include_dirs,omitempty"`
	ClassName   string   `json:"class_name" msgpack:"class_name"`
	Extra       []string `json:"extra,omitempty" msgpack:"extra,omitempty"`
}

// ErrInvalidOptions is returned by ParseArgs for a malformed argument vector.
var ErrInvalidOptions = errors.New("invalid factory arguments")

// DefaultClassName is used when -cn is not given.
const DefaultClassName = "mydsp"

// known maps the single-dash flags of the argument vector to their pflag names.
var known = map[string]bool{"single": false, "double": false, "I": true, "cn": true}

// newFlagSet declares the recognized flags. It doubles as the usage text of the CLI.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("factory", pflag.ContinueOnError)
	fs.Bool("single", false, "generate single precision code (default)")
	fs.Bool("double", false, "generate double precision code")
	fs.StringArrayP("import-dir", "I", nil, "add a directory to the foreign declaration search path")
	fs.String("cn", DefaultClassName, "name of the generated class")
	return fs
}

// Usage describes the recognized flags.
func Usage() string {
	return newFlagSet().FlagUsages()
}

// ParseArgs reads -single, -double, -I dir and -cn name from argv. Unrecognized
// arguments are preserved in order in Options.Extra.
func ParseArgs(argv []string) (Options, error) {
	var recognized, extra []string
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		name := strings.TrimLeft(tok, "-")
		switch {
		case !strings.HasPrefix(tok, "-") || tok == "-" || tok == "--":
			extra = append(extra, tok)
		case strings.HasPrefix(tok, "-I") && !strings.HasPrefix(tok, "-I=") && !strings.HasPrefix(tok, "--") && len(tok) > 2:
			recognized = append(recognized, "-I", tok[2:])
		default:
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				if takesValue, ok := known[name[:eq]]; ok {
					if takesValue {
						recognized = append(recognized, flagToken(name[:eq]), name[eq+1:])
					} else {
						recognized = append(recognized, flagToken(name[:eq])+"="+name[eq+1:])
					}
					continue
				}
			}
			takesValue, ok := known[name]
			if !ok {
				extra = append(extra, tok)
				continue
			}
			recognized = append(recognized, flagToken(name))
			if takesValue {
				if i+1 >= len(argv) {
					return Options{}, fmt.Errorf("%w: flag -%s needs a value", ErrInvalidOptions, name)
				}
				i++
				recognized = append(recognized, argv[i])
			}
		}
	}

	fs := newFlagSet()
	if err := fs.Parse(recognized); err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	single, _ := fs.GetBool("single")
	double, _ := fs.GetBool("double")
	if single && double {
		return Options{}, fmt.Errorf("%w: -single and -double are mutually exclusive", ErrInvalidOptions)
	}
	dirs, _ := fs.GetStringArray("import-dir")
	if len(dirs) == 0 {
		dirs = nil
	}
	class, _ := fs.GetString("cn")

	opts := Options{
		Precision:   PrecisionSingle,
		IncludeDirs: dirs,
		ClassName:   class,
		Extra:       extra,
	}
	if double {
		opts.Precision = PrecisionDouble
	}
	return opts, nil
}

func flagToken(name string) string {
	if name == "I" {
		return "-I"
	}
	return "--" + name
}

// Args renders the options back into a canonical argument vector.
func (o Options) Args() []string {
	args := []string{"-" + o.precision()}
	for _, d := range o.IncludeDirs {
		args = append(args, "-I", d)
	}
	args = append(args, "-cn", o.className())
	return append(args, o.Extra...)
}

// SearchPath returns the include directories followed by the working directory.
func (o Options) SearchPath() []string {
	dirs := slices.Clone(o.IncludeDirs)
	if !slices.Contains(dirs, ".") {
		dirs = append(dirs, ".")
	}
	return dirs
}

func (o Options) precision() string {
	if o.Precision == "" {
		return PrecisionSingle
	}
	return o.Precision
}

func (o Options) className() string {
	if o.ClassName == "" {
		return DefaultClassName
	}
	return o.ClassName
}
