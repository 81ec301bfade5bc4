package main

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	intervaltree "github.com/AlexWan0/go-intervaltree"
)

type interval = intervaltree.Interval[int64, string]

func newSerializer(lg *zap.Logger) *intervaltree.Serializer[int64, string] {
	return intervaltree.NewSerializer[int64, string](
		intervaltree.Int64Codec{},
		intervaltree.StringCodec{},
		intervaltree.Ordered[int64],
		intervaltree.WithLogger(lg),
	)
}

func readIntervalsFile(path string) ([]interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open ranges file: %s", path)
	}
	defer f.Close()
	ivs, err := readIntervals(f)
	return ivs, errors.Wrap(err, path)
}

// readIntervals parses low,high[,payload] rows. Lines starting with # are
// skipped, and so is a first row whose low bound is not a number.
func readIntervals(r io.Reader) ([]interval, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var ivs []interval
	for first := true; ; first = false {
		record, err := cr.Read()
		if err == io.EOF {
			return ivs, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(record) < 2 || len(record) > 3 {
			return nil, errors.Errorf("line %d: want low,high[,payload], got %d fields", line, len(record))
		}
		low, err := parseBound(record[0])
		if err != nil {
			if first {
				continue
			}
			return nil, errors.Wrapf(err, "line %d: low", line)
		}
		high, err := parseBound(record[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: high", line)
		}
		if len(record) == 3 {
			ivs = append(ivs, intervaltree.NewPayloadInterval(low, high, record[2]))
		} else {
			ivs = append(ivs, intervaltree.NewInterval[int64, string](low, high))
		}
	}
}

func parseBound(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// parseQuery accepts low:high or a single point.
func parseQuery(s string) (interval, error) {
	lo, hi, found := strings.Cut(s, ":")
	if !found {
		hi = lo
	}
	low, err := parseBound(lo)
	if err != nil {
		return interval{}, errors.Wrapf(err, "query %q", s)
	}
	high, err := parseBound(hi)
	if err != nil {
		return interval{}, errors.Wrapf(err, "query %q", s)
	}
	return intervaltree.NewInterval[int64, string](low, high), nil
}

func writeIntervals(w io.Writer, ivs []interval) error {
	cw := csv.NewWriter(w)
	for _, iv := range ivs {
		record := []string{strconv.FormatInt(iv.Low, 10), strconv.FormatInt(iv.High, 10)}
		if v, ok := iv.Payload(); ok {
			record = append(record, v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeTree(path string, t *intervaltree.Tree[int64, string], lg *zap.Logger) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create tree file: %s", path)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if err := newSerializer(lg).Serialize(w, t, intervaltree.CurrentVersion); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return w.Flush()
}

func readTree(path string, lg *zap.Logger) (*intervaltree.Tree[int64, string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read tree file: %s", path)
	}
	t, err := newSerializer(lg).Unmarshal(data, intervaltree.CurrentVersion)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return t, nil
}
