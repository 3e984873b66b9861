package sigtree

import "encoding/binary"

// reader is a bounds-checked cursor over one tree or body slice.
// base is the absolute offset of buf[0] in the caller's buffer.
type reader struct {
	buf  []byte
	off  int
	base int
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) pos() int {
	return r.base + r.off
}

func (r *reader) need(n int, field string) error {
	if n < 0 || r.remaining() < n {
		return decodeErr(CodeTruncated, r.pos(), "truncated %s: need %d bytes, have %d", field, n, r.remaining())
	}
	return nil
}

func (r *reader) readU8(field string) (uint8, error) {
	if err := r.need(1, field); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *reader) readU16(field string) (uint16, error) {
	if err := r.need(2, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off : r.off+2])
	r.off += 2
	return v, nil
}

// readU24 has no encoding/binary helper.
func (r *reader) readU24(field string) (int, error) {
	if err := r.need(3, field); err != nil {
		return 0, err
	}
	b := r.buf[r.off : r.off+3]
	v := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	r.off += 3
	return v, nil
}

func (r *reader) readU32(field string) (uint32, error) {
	if err := r.need(4, field); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4
	return v, nil
}

// readBytes returns a view into the underlying buffer. Callers that keep the
// bytes in the result tree must copy them.
func (r *reader) readBytes(n int, field string) ([]byte, error) {
	if err := r.need(n, field); err != nil {
		return nil, err
	}
	v := r.buf[r.off : r.off+n]
	r.off += n
	return v, nil
}
