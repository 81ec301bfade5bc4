package intervaltree

import (
	"bytes"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedWidthCodecs(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	for _, v := range []int32{0, -1, math.MinInt32, math.MaxInt32, 1907} {
		buf.Reset()
		r.NoError(Int32Codec{}.Encode(&buf, v, CurrentVersion))
		r.EqualValues(Int32Codec{}.Size(v, CurrentVersion), buf.Len())
		got, err := Int32Codec{}.Decode(&buf, CurrentVersion)
		r.NoError(err)
		r.Equal(v, got)
	}
	for _, v := range []int64{0, -1, math.MinInt64, math.MaxInt64} {
		buf.Reset()
		r.NoError(Int64Codec{}.Encode(&buf, v, CurrentVersion))
		r.EqualValues(Int64Codec{}.Size(v, CurrentVersion), buf.Len())
		got, err := Int64Codec{}.Decode(&buf, CurrentVersion)
		r.NoError(err)
		r.Equal(v, got)
	}

	_, err := Int32Codec{}.Decode(bytes.NewReader([]byte{1, 2}), CurrentVersion)
	r.ErrorIs(err, io.ErrUnexpectedEOF)
	_, err = Int64Codec{}.Decode(bytes.NewReader(nil), CurrentVersion)
	r.ErrorIs(err, io.EOF)
}

func TestStringCodec(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	for _, v := range []string{"", "a", "Schönberg", strings.Repeat("x", math.MaxUint16)} {
		buf.Reset()
		r.NoError(StringCodec{}.Encode(&buf, v, CurrentVersion))
		r.EqualValues(StringCodec{}.Size(v, CurrentVersion), buf.Len())
		got, err := StringCodec{}.Decode(&buf, CurrentVersion)
		r.NoError(err)
		r.Equal(v, got)
	}

	r.Error(StringCodec{}.Encode(io.Discard, strings.Repeat("x", math.MaxUint16+1), CurrentVersion))

	_, err := StringCodec{}.Decode(bytes.NewReader([]byte{0, 3, 'a'}), CurrentVersion)
	r.ErrorIs(err, io.ErrUnexpectedEOF)
	_, err = StringCodec{}.Decode(bytes.NewReader([]byte{0, 1}), CurrentVersion)
	r.ErrorIs(err, io.ErrUnexpectedEOF)
}

func TestMsgpackCodec(t *testing.T) {
	r := require.New(t)

	c := NewMsgpackCodec[record]()
	v := record{Name: "Mozart", Tags: []string{"classical", "salzburg"}}

	var buf bytes.Buffer
	r.NoError(c.Encode(&buf, v, CurrentVersion))
	r.EqualValues(c.Size(v, CurrentVersion), buf.Len())
	data := bytes.Clone(buf.Bytes())

	got, err := c.Decode(&buf, CurrentVersion)
	r.NoError(err)
	r.Equal(v, got)
	r.Zero(buf.Len())

	_, err = c.Decode(bytes.NewReader(data[:len(data)-1]), CurrentVersion)
	r.ErrorIs(err, io.ErrUnexpectedEOF)
	_, err = c.Decode(bytes.NewReader(data[:2]), CurrentVersion)
	r.ErrorIs(err, io.ErrUnexpectedEOF)

	// a frame of garbage fails in the msgpack decoder
	_, err = c.Decode(bytes.NewReader([]byte{0, 0, 0, 1, 0xc1}), CurrentVersion)
	r.Error(err)

	ints := NewMsgpackCodec[int64]()
	buf.Reset()
	r.NoError(ints.Encode(&buf, -42, CurrentVersion))
	n, err := ints.Decode(&buf, CurrentVersion)
	r.NoError(err)
	r.Equal(int64(-42), n)
}
