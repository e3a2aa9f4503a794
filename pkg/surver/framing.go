package surver

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// compressHierarchy lz4-compresses raw, prefixed with its uncompressed
// length as an unsigned LEB128 varint so the client can size its
// decompression buffer up front -- the Go counterpart of the reference
// server's compress_prepend_size framing for get_hierarchy bodies.
func compressHierarchy(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	var lenPrefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenPrefix[:], uint64(len(raw)))
	buf.Write(lenPrefix[:n])

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	var compressor lz4.Compressor
	written, err := compressor.CompressBlock(raw, compressed)
	if err != nil {
		return nil, fmt.Errorf("surver: lz4 compress hierarchy: %w", err)
	}
	buf.Write(compressed[:written])
	return buf.Bytes(), nil
}

// decompressHierarchy reverses compressHierarchy. It is unexported; the
// package's tests use it to check get_hierarchy bodies.
func decompressHierarchy(data []byte) ([]byte, error) {
	r := bytes.NewReader(data)
	rawLen, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("surver: read hierarchy length prefix: %w", err)
	}
	rest := data[len(data)-r.Len():]
	raw := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(rest, raw)
	if err != nil {
		return nil, fmt.Errorf("surver: lz4 decompress hierarchy: %w", err)
	}
	return raw[:n], nil
}

// signalEncoder/signalDecoder are the zstd pair shared by all get_signals
// bodies in a process. Constructing a single reusable codec per the
// klauspost/compress/zstd idiom avoids per-request encoder allocation.
var signalEncoder, _ = zstd.NewWriter(nil)
var signalDecoder, _ = zstd.NewReader(nil)

// CompressedSignal is one zstd-compressed, length-prefixed signal record
// as it appears back-to-back in a get_signals body. Its MarshalBinary /
// UnmarshalBinary pair is written by hand in the style `msgp` generates
// for a raw-bytes-plus-length field, rather than through msgp codegen.
type CompressedSignal struct {
	Compressed []byte
}

// MarshalBinary appends the varint length prefix and compressed payload.
func (c CompressedSignal) MarshalBinary() ([]byte, error) {
	var lenPrefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenPrefix[:], uint64(len(c.Compressed)))
	out := make([]byte, 0, n+len(c.Compressed))
	out = append(out, lenPrefix[:n]...)
	out = append(out, c.Compressed...)
	return out, nil
}

// UnmarshalBinary reads one record from the front of data and returns how
// many bytes it consumed.
func (c *CompressedSignal) UnmarshalBinary(data []byte) (consumed int, err error) {
	r := bytes.NewReader(data)
	recordLen, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, fmt.Errorf("surver: read signal length prefix: %w", err)
	}
	prefixLen := len(data) - r.Len()
	end := prefixLen + int(recordLen)
	if end > len(data) {
		return 0, fmt.Errorf("surver: truncated signal record")
	}
	c.Compressed = data[prefixLen:end]
	return end, nil
}

// compressSignal zstd-compresses raw and frames it with an unsigned
// varint length prefix, so get_signals can pack N of these back to back.
func compressSignal(raw []byte) []byte {
	cs := CompressedSignal{Compressed: signalEncoder.EncodeAll(raw, nil)}
	out, _ := cs.MarshalBinary()
	return out
}

// readCompressedSignal reads one varint-length-prefixed zstd record from
// data, returning the decompressed bytes and the number of bytes consumed.
func readCompressedSignal(data []byte) (raw []byte, consumed int, err error) {
	var cs CompressedSignal
	consumed, err = cs.UnmarshalBinary(data)
	if err != nil {
		return nil, 0, err
	}
	raw, err = signalDecoder.DecodeAll(cs.Compressed, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("surver: zstd decompress signal: %w", err)
	}
	return raw, consumed, nil
}
