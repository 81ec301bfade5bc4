package intervaltree

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CurrentVersion is the protocol version written by this package.
// The version is handed to the codecs; the record layout does not depend on it.
const CurrentVersion = 1

var (
	// ErrCorrupt is returned when a stream cannot be decoded into a tree.
	ErrCorrupt = errors.New("intervaltree: corrupt stream")
	// ErrNoPayloadCodec is returned when a payload must be encoded or
	// decoded by a Serializer that has no payload codec.
	ErrNoPayloadCodec = errors.New("intervaltree: no payload codec")
)

// Codec encodes and decodes single values of type T.
type Codec[T any] interface {
	Encode(w io.Writer, v T, version int) error
	Decode(r io.Reader, version int) (T, error)
	// Size returns the number of bytes Encode writes for v.
	Size(v T, version int) int64
}

// Serializer writes trees as a flat record list and reads them back.
//
// Layout: a 4-byte big-endian signed count, then per interval in iteration
// order the encoded low, the encoded high, a presence byte (0 or 1) and the
// encoded payload if present. Decoding rebuilds the tree from the records,
// which yields the same tree the records were taken from.
//
// Errors returned by the codecs are passed through as they are, except for
// io.EOF while records are still due, which is reported as ErrCorrupt.
type Serializer[B, V any] struct {
	boundary Codec[B]
	payload  Codec[V]
	cmp      Comparator[B]
	opts     []Option
}

// NewSerializer returns a Serializer. payload may be nil for trees that
// carry no payloads. Decoded trees order boundaries with cmp.
func NewSerializer[B, V any](boundary Codec[B], payload Codec[V], cmp Comparator[B], opts ...Option) *Serializer[B, V] {
	return &Serializer[B, V]{boundary: boundary, payload: payload, cmp: cmp, opts: opts}
}

// Serialize writes t to w.
func (s *Serializer[B, V]) Serialize(w io.Writer, t *Tree[B, V], version int) error {
	if t.Len() > math.MaxInt32 {
		return errors.Errorf("intervaltree: %d intervals do not fit the count header", t.Len())
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(t.Len()))
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.Wrap(err, "writing count")
	}

	it := t.Iterator()
	for it.Next() {
		iv := it.Interval()
		if err := s.boundary.Encode(w, iv.Low, version); err != nil {
			return err
		}
		if err := s.boundary.Encode(w, iv.High, version); err != nil {
			return err
		}
		v, ok := iv.Payload()
		flag := []byte{0}
		if ok {
			flag[0] = 1
		}
		if _, err := w.Write(flag); err != nil {
			return errors.Wrap(err, "writing payload flag")
		}
		if !ok {
			continue
		}
		if s.payload == nil {
			return errors.Wrapf(ErrNoPayloadCodec, "encoding %v", iv)
		}
		if err := s.payload.Encode(w, v, version); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a tree written by Serialize. A stream that ends early
// or holds an impossible record fails with ErrCorrupt; no partial tree is
// returned.
func (s *Serializer[B, V]) Deserialize(r io.Reader, version int) (*Tree[B, V], error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "reading count: %v", err)
	}
	count := int32(binary.BigEndian.Uint32(hdr[:]))
	if count < 0 {
		return nil, errors.Wrapf(ErrCorrupt, "negative count %d", count)
	}

	b := NewBuilder[B, V](s.cmp, s.opts...)
	// count is untrusted until the records are actually there.
	b.ivs = make([]Interval[B, V], 0, min(int(count), 1<<16))
	var flag [1]byte
	for i := 0; i < int(count); i++ {
		low, err := s.boundary.Decode(r, version)
		if err != nil {
			return nil, endOfRecords(err, i, count)
		}
		high, err := s.boundary.Decode(r, version)
		if err != nil {
			return nil, endOfRecords(err, i, count)
		}
		if _, err := io.ReadFull(r, flag[:]); err != nil {
			return nil, errors.Wrapf(ErrCorrupt, "record %d of %d: reading payload flag: %v", i, count, err)
		}
		switch flag[0] {
		case 0:
			b.PushBack(NewInterval[B, V](low, high))
		case 1:
			if s.payload == nil {
				return nil, errors.Wrapf(ErrNoPayloadCodec, "record %d of %d", i, count)
			}
			v, err := s.payload.Decode(r, version)
			if err != nil {
				return nil, endOfRecords(err, i, count)
			}
			b.PushBack(NewPayloadInterval(low, high, v))
		default:
			return nil, errors.Wrapf(ErrCorrupt, "record %d of %d: payload flag %d", i, count, flag[0])
		}
	}

	t, err := b.Build()
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%v", err)
	}
	b.opts.lg.Debug("decoded interval tree", zap.Int("intervals", t.Len()), zap.Int("version", version))
	return t, nil
}

// endOfRecords turns a clean end of stream met before count records were
// read into ErrCorrupt. Any other codec error is returned as it is.
func endOfRecords(err error, i int, count int32) error {
	if err == io.EOF {
		return errors.Wrapf(ErrCorrupt, "record %d of %d: stream ended", i, count)
	}
	return err
}

// SerializedSize returns the number of bytes Serialize writes for t,
// without writing anything.
func (s *Serializer[B, V]) SerializedSize(t *Tree[B, V], version int) int64 {
	size := int64(4)
	t.Each(func(iv Interval[B, V]) bool {
		size += s.boundary.Size(iv.Low, version) + s.boundary.Size(iv.High, version) + 1
		if v, ok := iv.Payload(); ok && s.payload != nil {
			size += s.payload.Size(v, version)
		}
		return true
	})
	return size
}

// Marshal encodes t into a byte slice.
func (s *Serializer[B, V]) Marshal(t *Tree[B, V], version int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(s.SerializedSize(t, version)))
	if err := s.Serialize(&buf, t, version); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a tree from data generated by Marshal.
// Bytes left over after the last record make data corrupt.
func (s *Serializer[B, V]) Unmarshal(data []byte, version int) (*Tree[B, V], error) {
	r := bytes.NewReader(data)
	t, err := s.Deserialize(r, version)
	if err != nil {
		return nil, err
	}
	if r.Len() > 0 {
		return nil, errors.Wrapf(ErrCorrupt, "%d trailing bytes", r.Len())
	}
	return t, nil
}
