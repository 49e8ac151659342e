package factory

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Factory is the compiled artifact of a box: its options, port counts and the
// exported signal program, addressed by a SHA-1 key.
type Factory struct {
	Name      string       `json:"name" msgpack:"name"`
	SHAKey    string       `json:"sha_key" msgpack:"sha_key"`
	Options   Options      `json:"options" msgpack:"options"`
	Arity     domain.Arity `json:"arity" msgpack:"arity"`
	Program   *Program     `json:"program" msgpack:"program"`
	Compiler  string       `json:"compiler,omitempty" msgpack:"compiler,omitempty"`
	CreatedAt time.Time    `json:"created_at" msgpack:"created_at"`
}

// Key derives the SHA key of a factory from the structural fingerprint of its
// root box, its name and its normalized options.
func Key(fingerprint, name string, opts Options) string {
	h := sha1.New()
	io.WriteString(h, fingerprint)
	io.WriteString(h, "\x00")
	io.WriteString(h, name)
	io.WriteString(h, "\x00")
	io.WriteString(h, strings.Join(opts.Args(), "\x00"))
	return hex.EncodeToString(h.Sum(nil))
}

// Write serializes the factory. The text form is JSON, indented unless compact;
// the binary form is MessagePack.
func (f *Factory) Write(w io.Writer, binary, compact bool) error {
	if binary {
		enc := msgpack.NewEncoder(w)
		enc.UseCompactInts(compact)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode factory %s: %w", f.SHAKey, err)
		}
		return nil
	}
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode factory %s: %w", f.SHAKey, err)
	}
	return nil
}

// Read restores a factory written by Write.
func Read(r io.Reader, binary bool) (*Factory, error) {
	var f Factory
	var err error
	if binary {
		err = msgpack.NewDecoder(r).Decode(&f)
	} else {
		err = json.NewDecoder(r).Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode factory: %w", err)
	}
	if f.Program == nil {
		return nil, fmt.Errorf("failed to decode factory: missing program")
	}
	if err := f.Program.Validate(); err != nil {
		return nil, fmt.Errorf("invalid factory program: %w", err)
	}
	return &f, nil
}

// Marshal returns the binary form of the factory.
func (f *Factory) Marshal() ([]byte, error) {
	return msgpack.Marshal(f)
}

// Unmarshal parses the binary form of a factory.
func Unmarshal(data []byte) (*Factory, error) {
	var f Factory
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode factory: %w", err)
	}
	if f.Program == nil {
		return nil, fmt.Errorf("failed to decode factory: missing program")
	}
	return &f, nil
}
