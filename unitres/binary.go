package unitres

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/phanxgames/arbor"
)

// Binary layout, little endian:
//
//	magic   [4]byte "ARBN"
//	version uint32
//	count   uint32
//	names   [count]uint32
//	poses   [count][16]float32 (column-major)
//	parents [count]int32
const (
	Magic   = "ARBN"
	Version = 1

	// maxNodes bounds count when decoding untrusted input.
	maxNodes = 1 << 16
)

// ErrBadFormat is returned, wrapped, when decoding input that is not a
// compiled node layout.
var ErrBadFormat = errors.New("bad node layout file")

type header struct {
	Magic   [4]byte
	Version uint32
	Count   uint32
}

// Encode writes layout in the binary format.
func Encode(w io.Writer, layout arbor.NodeLayout) error {
	if err := arbor.ValidateLayout(layout); err != nil {
		return errors.Wrap(err, "encode")
	}
	bw := bufio.NewWriter(w)

	h := header{Version: Version, Count: uint32(layout.Len())}
	copy(h.Magic[:], Magic)
	for _, v := range []any{h, layout.Names, layout.Poses, layout.Parents} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return errors.Wrap(err, "encode")
		}
	}
	return errors.Wrap(bw.Flush(), "encode")
}

// Decode reads a layout written by Encode and validates it.
func Decode(r io.Reader) (arbor.NodeLayout, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return arbor.NodeLayout{}, errors.Wrap(err, "decode header")
	}
	if string(h.Magic[:]) != Magic {
		return arbor.NodeLayout{}, errors.Wrapf(ErrBadFormat, "magic %q", h.Magic[:])
	}
	if h.Version != Version {
		return arbor.NodeLayout{}, errors.Wrapf(ErrBadFormat, "version %d", h.Version)
	}
	if h.Count == 0 || h.Count > maxNodes {
		return arbor.NodeLayout{}, errors.Wrapf(ErrBadFormat, "node count %d", h.Count)
	}

	n := int(h.Count)
	layout := arbor.NodeLayout{
		Names:   make([]arbor.StringID32, n),
		Poses:   make([]arbor.Mat4, n),
		Parents: make([]int32, n),
	}
	for _, v := range []any{layout.Names, layout.Poses, layout.Parents} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return arbor.NodeLayout{}, errors.Wrap(err, "decode nodes")
		}
	}
	if err := arbor.ValidateLayout(layout); err != nil {
		return arbor.NodeLayout{}, errors.Wrap(err, "decode")
	}
	return layout, nil
}
