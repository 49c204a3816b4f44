package classfile

import (
	"encoding/binary"
	"fmt"
)

// Big-endian field widths used throughout the class-file format.
const (
	sizeU1 = 1
	sizeU2 = 2
	sizeU4 = 4
	sizeU8 = 8
)

// reader is a cursor over class-file bytes. Every read advances the cursor and
// fails with ErrTruncated instead of slicing past the end.
type reader struct {
	data   []byte
	offset int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.offset
}

func (r *reader) need(n int) error {
	if n < 0 || r.remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.offset, r.remaining())
	}

	return nil
}

func (r *reader) u1() (uint8, error) {
	err := r.need(sizeU1)
	if err != nil {
		return 0, err
	}

	v := r.data[r.offset]
	r.offset += sizeU1

	return v, nil
}

func (r *reader) s1() (int8, error) {
	v, err := r.u1()

	return int8(v), err
}

func (r *reader) u2() (uint16, error) {
	err := r.need(sizeU2)
	if err != nil {
		return 0, err
	}

	v := binary.BigEndian.Uint16(r.data[r.offset:])
	r.offset += sizeU2

	return v, nil
}

func (r *reader) s2() (int16, error) {
	v, err := r.u2()

	return int16(v), err
}

func (r *reader) u4() (uint32, error) {
	err := r.need(sizeU4)
	if err != nil {
		return 0, err
	}

	v := binary.BigEndian.Uint32(r.data[r.offset:])
	r.offset += sizeU4

	return v, nil
}

func (r *reader) s4() (int32, error) {
	v, err := r.u4()

	return int32(v), err
}

func (r *reader) u8() (uint64, error) {
	err := r.need(sizeU8)
	if err != nil {
		return 0, err
	}

	v := binary.BigEndian.Uint64(r.data[r.offset:])
	r.offset += sizeU8

	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	err := r.need(n)
	if err != nil {
		return nil, err
	}

	b := r.data[r.offset : r.offset+n]
	r.offset += n

	return b, nil
}

func (r *reader) skip(n int) error {
	err := r.need(n)
	if err != nil {
		return err
	}

	r.offset += n

	return nil
}
