package intervaltree

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// Int32Codec writes int32 values as 4 big-endian bytes.
type Int32Codec struct{}

func (Int32Codec) Encode(w io.Writer, v int32, _ int) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

func (Int32Codec) Decode(r io.Reader, _ int) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func (Int32Codec) Size(int32, int) int64 { return 4 }

// Int64Codec writes int64 values as 8 big-endian bytes.
type Int64Codec struct{}

func (Int64Codec) Encode(w io.Writer, v int64, _ int) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return err
}

func (Int64Codec) Decode(r io.Reader, _ int) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func (Int64Codec) Size(int64, int) int64 { return 8 }

// StringCodec writes a string as a 2-byte big-endian length followed by
// its bytes, so strings are limited to 65535 bytes.
type StringCodec struct{}

func (StringCodec) Encode(w io.Writer, v string, _ int) error {
	if len(v) > math.MaxUint16 {
		return errors.Errorf("intervaltree: string of %d bytes is too long to encode", len(v))
	}
	b := make([]byte, 2+len(v))
	binary.BigEndian.PutUint16(b, uint16(len(v)))
	copy(b[2:], v)
	_, err := w.Write(b)
	return err
}

func (StringCodec) Decode(r io.Reader, _ int) (string, error) {
	var n [2]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return "", err
	}
	b := make([]byte, binary.BigEndian.Uint16(n[:]))
	if _, err := io.ReadFull(r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(b), nil
}

func (StringCodec) Size(v string, _ int) int64 { return 2 + int64(len(v)) }

// MsgpackCodec encodes any value msgpack can represent, framed by a
// 4-byte big-endian length.
type MsgpackCodec[T any] struct {
	h codec.MsgpackHandle
}

// NewMsgpackCodec returns a MsgpackCodec for T.
func NewMsgpackCodec[T any]() *MsgpackCodec[T] {
	return &MsgpackCodec[T]{}
}

func (c *MsgpackCodec[T]) marshal(v T) (out []byte, err error) {
	enc := codec.NewEncoderBytes(&out, &c.h)
	err = enc.Encode(v)
	return
}

func (c *MsgpackCodec[T]) Encode(w io.Writer, v T, _ int) error {
	out, err := c.marshal(v)
	if err != nil {
		return err
	}
	if uint64(len(out)) > math.MaxUint32 {
		return errors.Errorf("intervaltree: msgpack value of %d bytes is too long to frame", len(out))
	}
	b := make([]byte, 4, 4+len(out))
	binary.BigEndian.PutUint32(b, uint32(len(out)))
	_, err = w.Write(append(b, out...))
	return err
}

func (c *MsgpackCodec[T]) Decode(r io.Reader, _ int) (v T, err error) {
	var n [4]byte
	if _, err = io.ReadFull(r, n[:]); err != nil {
		return
	}
	// The frame length is untrusted; let the buffer grow with the data.
	var in bytes.Buffer
	if _, err = io.CopyN(&in, r, int64(binary.BigEndian.Uint32(n[:]))); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return
	}
	dec := codec.NewDecoderBytes(in.Bytes(), &c.h)
	err = dec.Decode(&v)
	return
}

// Size returns the framed size of v. A value that cannot be encoded
// counts as its frame header only; Encode reports the failure.
func (c *MsgpackCodec[T]) Size(v T, _ int) int64 {
	out, err := c.marshal(v)
	if err != nil {
		return 4
	}
	return 4 + int64(len(out))
}
