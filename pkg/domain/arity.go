package domain

import "fmt"

// Arity is the (inputs, outputs) port-count pair of a box.
type Arity struct {
	Inputs  int `json:"inputs" yaml:"inputs" msgpack:"inputs"`
	Outputs int `json:"outputs" yaml:"outputs" msgpack:"outputs"`
}

func (a Arity) String() string {
	return fmt.Sprintf("(%d,%d)", a.Inputs, a.Outputs)
}
