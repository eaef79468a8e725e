// Package objcode encodes and decodes Lace's object file format: a sequence of 16-bit big-endian
// words, the first of which is the load origin and the rest the program image.
//
// Unlike the teacher's Intel-Hex-based internal/encoding, Lace's object format carries no record
// framing or checksum; it is the plain LC-3 object format used by the reference toolchain.
package objcode

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nonl4331/lace/internal/vm"
)

// ErrDecode is the sentinel wrapped by decoding errors.
var ErrDecode = errors.New("objcode: decode error")

// ErrEmpty is returned when an object file has no program words following its origin.
var ErrEmpty = fmt.Errorf("%w: no program words", ErrDecode)

// Write encodes obj to out: the origin word, then each program word, in big-endian order.
func Write(out io.Writer, obj vm.ObjectCode) (int64, error) {
	bw := bufio.NewWriter(out)

	if err := binary.Write(bw, binary.BigEndian, uint16(obj.Orig)); err != nil {
		return 0, fmt.Errorf("objcode: write origin: %w", err)
	}

	words := make([]uint16, len(obj.Code))
	for i, w := range obj.Code {
		words[i] = uint16(w)
	}

	if err := binary.Write(bw, binary.BigEndian, words); err != nil {
		return 0, fmt.Errorf("objcode: write code: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("objcode: flush: %w", err)
	}

	return int64(2 + 2*len(obj.Code)), nil
}

// Read decodes an object image from r: a big-endian origin word followed by one or more big-endian
// program words.
func Read(r io.Reader) (vm.ObjectCode, error) {
	var obj vm.ObjectCode

	var origin uint16
	if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
		if errors.Is(err, io.EOF) {
			return obj, fmt.Errorf("objcode: %w", ErrEmpty)
		}

		return obj, fmt.Errorf("objcode: read origin: %w", err)
	}

	obj.Orig = vm.Word(origin)

	for {
		var word uint16

		err := binary.Read(r, binary.BigEndian, &word)
		if errors.Is(err, io.EOF) {
			break
		} else if errors.Is(err, io.ErrUnexpectedEOF) {
			return obj, fmt.Errorf("objcode: %w: truncated final word", ErrDecode)
		} else if err != nil {
			return obj, fmt.Errorf("objcode: read word: %w", err)
		}

		obj.Code = append(obj.Code, vm.Word(word))
	}

	if len(obj.Code) == 0 {
		return obj, fmt.Errorf("objcode: %w", ErrEmpty)
	}

	return obj, nil
}
