package format

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// woffParams are the "woff" format options.
type woffParams struct {
	// Metadata is an extended metadata XML document stored compressed
	// in the WOFF metadata block.
	Metadata string `option:"metadata"`
}

const (
	woffSignature       = 0x774F4646 // "wOFF"
	woffHeaderSize      = 44
	woffTableRecordSize = 20
)

// ConvertWOFF repackages a TrueType font as WOFF 1.0, compressing every
// table with zlib when that makes it smaller.
func ConvertWOFF(ctx context.Context, opts *Options, deps ...[]byte) ([]byte, error) {
	ttf, err := dependency(WOFF, deps)
	if err != nil {
		return nil, err
	}
	var params woffParams
	if err := decodeOverride(opts, WOFF, &params); err != nil {
		return nil, err
	}
	font, err := parseSFNT(ttf)
	if err != nil {
		return nil, err
	}
	return encodeWOFF(font, []byte(params.Metadata))
}

func encodeWOFF(font *sfntFont, metadata []byte) ([]byte, error) {
	be := binary.BigEndian
	n := len(font.tables)
	offset := woffHeaderSize + n*woffTableRecordSize

	out := make([]byte, offset)
	totalSfnt := sfntHeaderSize + n*sfntTableRecordSize
	for i, t := range font.tables {
		data, err := deflate(t.data)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeConversion, err, "woff: compress table %q", t.tag)
		}
		if len(data) >= len(t.data) {
			data = t.data
		}
		rec := out[woffHeaderSize+i*woffTableRecordSize:]
		copy(rec[0:4], t.tag)
		be.PutUint32(rec[4:], uint32(len(out)))
		be.PutUint32(rec[8:], uint32(len(data)))
		be.PutUint32(rec[12:], uint32(len(t.data)))
		be.PutUint32(rec[16:], t.checksum)

		out = append(out, data...)
		out = padTo4(out)
		totalSfnt += pad4(len(t.data))
	}

	var metaOffset, metaLength uint32
	if len(metadata) > 0 {
		meta, err := deflate(metadata)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeConversion, err, "woff: compress metadata")
		}
		metaOffset = uint32(len(out))
		metaLength = uint32(len(meta))
		out = append(out, meta...)
	}

	var major, minor uint16
	if head := font.table("head"); len(head) >= 8 {
		major = be.Uint16(head[4:6])
		minor = be.Uint16(head[6:8])
	}

	be.PutUint32(out[0:], woffSignature)
	be.PutUint32(out[4:], font.flavor)
	be.PutUint32(out[8:], uint32(len(out)))
	be.PutUint16(out[12:], uint16(n))
	be.PutUint32(out[16:], uint32(totalSfnt))
	be.PutUint16(out[20:], major)
	be.PutUint16(out[22:], minor)
	be.PutUint32(out[24:], metaOffset)
	be.PutUint32(out[28:], metaLength)
	be.PutUint32(out[32:], uint32(len(metadata)))
	// No private data block.
	return out, nil
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func padTo4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}
