package box

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/faustbox/pkg/domain"
)

// Fingerprint returns a hex SHA-1 of the structure of b. Unlike handles, it is
// stable across contexts: two contexts building the same diagram get the same value.
func (c *Context) Fingerprint(b Box) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.lookup(b); err != nil {
		return "", err
	}
	memo := make(map[uint32][]byte)
	return hex.EncodeToString(c.digest(b, memo)), nil
}

func (c *Context) digest(b Box, memo map[uint32][]byte) []byte {
	if d, ok := memo[b.id]; ok {
		return d
	}
	n := &c.nodes[b.id]
	h := sha1.New()
	var buf [8]byte
	h.Write([]byte{byte(n.Kind), byte(n.Op), byte(n.Fn), byte(n.Type)})
	binary.BigEndian.PutUint64(buf[:], uint64(n.Int))
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(n.Real))
	h.Write(buf[:])
	for _, s := range []string{n.Label, n.Name, n.File} {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	for _, a := range n.Args {
		h.Write(c.digest(a, memo))
	}
	d := h.Sum(nil)
	memo[b.id] = d
	return d
}

// Format renders b as a nested expression, e.g. "seq(par(_, _), +)".
func (c *Context) Format(b Box) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.lookup(b); err != nil {
		return "", err
	}
	var sb strings.Builder
	c.format(&sb, b)
	return sb.String(), nil
}

func (c *Context) format(sb *strings.Builder, b Box) {
	n := &c.nodes[b.id]
	switch n.Kind {
	case domain.BoxInt:
		sb.WriteString(strconv.FormatInt(n.Int, 10))
		return
	case domain.BoxReal:
		sb.WriteString(strconv.FormatFloat(n.Real, 'g', -1, 64))
		return
	case domain.BoxWire:
		sb.WriteByte('_')
		return
	case domain.BoxCut:
		sb.WriteByte('!')
		return
	case domain.BoxBinOp:
		sb.WriteString(n.Op.Symbol())
		return
	case domain.BoxMath:
		sb.WriteString(n.Fn.String())
		return
	case domain.BoxFConst, domain.BoxFVar:
		sb.WriteString(n.Kind.String())
		sb.WriteByte('(')
		sb.WriteString(n.Type.String())
		sb.WriteByte(' ')
		sb.WriteString(n.Name)
		sb.WriteString(", ")
		sb.WriteString(n.File)
		sb.WriteByte(')')
		return
	}
	sb.WriteString(n.Kind.String())
	if len(n.Args) == 0 && n.Label == "" {
		return
	}
	sb.WriteByte('(')
	sep := ""
	if n.Label != "" {
		sb.WriteString(strconv.Quote(n.Label))
		sep = ", "
	}
	for _, a := range n.Args {
		sb.WriteString(sep)
		c.format(sb, a)
		sep = ", "
	}
	sb.WriteByte(')')
}
