package experiment

import (
	"fmt"
	"io"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/qdel-labs/certdel"
)

// Count tables persist as a protobuf wire stream so archived runs stay
// readable across versions: a sequence of length-delimited entry records
// under field 1, each entry carrying the measurement string under field 1
// and its count as a varint under field 2. Unknown fields are skipped on
// read.

const (
	entryField       = 1
	measurementField = 1
	countField       = 2
)

// WriteCounts serializes counts to w in key order.
func WriteCounts(w io.Writer, counts certdel.MeasurementCounts) error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf []byte
	for _, k := range keys {
		var entry []byte
		entry = protowire.AppendTag(entry, measurementField, protowire.BytesType)
		entry = protowire.AppendString(entry, k)
		entry = protowire.AppendTag(entry, countField, protowire.VarintType)
		entry = protowire.AppendVarint(entry, uint64(counts[k]))
		buf = protowire.AppendTag(buf, entryField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, entry)
	}
	_, err := w.Write(buf)
	return err
}

// ReadCounts deserializes a count table written by WriteCounts. Duplicate
// measurement strings aggregate.
func ReadCounts(r io.Reader) (certdel.MeasurementCounts, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	counts := make(certdel.MeasurementCounts)
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, fmt.Errorf("reading count table: %w", protowire.ParseError(n))
		}
		buf = buf[n:]
		if num != entryField || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return nil, fmt.Errorf("reading count table: %w", protowire.ParseError(n))
			}
			buf = buf[n:]
			continue
		}
		entry, n := protowire.ConsumeBytes(buf)
		if n < 0 {
			return nil, fmt.Errorf("reading count table: %w", protowire.ParseError(n))
		}
		buf = buf[n:]
		measurement, count, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		counts[measurement] += count
	}
	return counts, nil
}

func parseEntry(entry []byte) (string, int, error) {
	var measurement string
	var count uint64
	for len(entry) > 0 {
		num, typ, n := protowire.ConsumeTag(entry)
		if n < 0 {
			return "", 0, fmt.Errorf("reading count entry: %w", protowire.ParseError(n))
		}
		entry = entry[n:]
		switch {
		case num == measurementField && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(entry)
			if n < 0 {
				return "", 0, fmt.Errorf("reading measurement string: %w", protowire.ParseError(n))
			}
			measurement, entry = s, entry[n:]
		case num == countField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(entry)
			if n < 0 {
				return "", 0, fmt.Errorf("reading count: %w", protowire.ParseError(n))
			}
			count, entry = v, entry[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, entry)
			if n < 0 {
				return "", 0, fmt.Errorf("reading count entry: %w", protowire.ParseError(n))
			}
			entry = entry[n:]
		}
	}
	return measurement, int(count), nil
}
