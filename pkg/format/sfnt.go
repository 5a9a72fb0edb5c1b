package format

import (
	"encoding/binary"
	"slices"
	"strings"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// sfntTable is one table of an sfnt (TrueType/OpenType) font.
type sfntTable struct {
	tag      string
	checksum uint32
	data     []byte
}

// sfntFont is the table directory of an sfnt font with the table bytes
// sliced out of the original buffer. Tables are sorted by tag.
type sfntFont struct {
	flavor uint32
	tables []sfntTable
}

const (
	sfntHeaderSize      = 12
	sfntTableRecordSize = 16
)

// parseSFNT reads the table directory of an sfnt font. It checks only
// what the WOFF and EOT writers rely on: bounds of every table record.
func parseSFNT(data []byte) (*sfntFont, error) {
	if len(data) < sfntHeaderSize {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "sfnt: font is truncated (%d bytes)", len(data))
	}
	f := &sfntFont{flavor: binary.BigEndian.Uint32(data[0:4])}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if numTables == 0 {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "sfnt: font has no tables")
	}
	if len(data) < sfntHeaderSize+numTables*sfntTableRecordSize {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "sfnt: table directory is truncated")
	}
	for i := 0; i < numTables; i++ {
		rec := data[sfntHeaderSize+i*sfntTableRecordSize:]
		offset := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, ierrors.New(ierrors.ErrCodeConversion, "sfnt: table %q extends past end of font", rec[0:4])
		}
		f.tables = append(f.tables, sfntTable{
			tag:      string(rec[0:4]),
			checksum: binary.BigEndian.Uint32(rec[4:8]),
			data:     data[offset : offset+length],
		})
	}
	slices.SortFunc(f.tables, func(a, b sfntTable) int { return strings.Compare(a.tag, b.tag) })
	return f, nil
}

// table returns the bytes of the table with the given tag, or nil.
func (f *sfntFont) table(tag string) []byte {
	for _, t := range f.tables {
		if t.tag == tag {
			return t.data
		}
	}
	return nil
}

// sfntChecksum computes the table checksum defined by the OpenType spec:
// the sum of big-endian uint32 words, zero padded to a multiple of four.
func sfntChecksum(b []byte) uint32 {
	var sum uint32
	for len(b) >= 4 {
		sum += binary.BigEndian.Uint32(b)
		b = b[4:]
	}
	if len(b) > 0 {
		var tail [4]byte
		copy(tail[:], b)
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}

// Name table IDs used by the EOT header.
const (
	nameFamily    = 1
	nameSubfamily = 2
	nameFullName  = 4
	nameVersion   = 5
)

// utf16LEName returns the name record nameID from a 'name' table encoded
// as UTF-16LE. Windows Unicode records are preferred; Macintosh Roman
// records are widened from single bytes. Missing names return nil.
func utf16LEName(name []byte, nameID uint16) []byte {
	if len(name) < 6 {
		return nil
	}
	count := int(binary.BigEndian.Uint16(name[2:4]))
	storage := int(binary.BigEndian.Uint16(name[4:6]))
	var mac []byte
	for i := 0; i < count; i++ {
		off := 6 + i*12
		if off+12 > len(name) {
			break
		}
		rec := name[off : off+12]
		platform := binary.BigEndian.Uint16(rec[0:2])
		id := binary.BigEndian.Uint16(rec[6:8])
		length := int(binary.BigEndian.Uint16(rec[8:10]))
		start := storage + int(binary.BigEndian.Uint16(rec[10:12]))
		if id != nameID || start+length > len(name) {
			continue
		}
		raw := name[start : start+length]
		switch platform {
		case 0, 3:
			out := make([]byte, len(raw)&^1)
			for j := 0; j+1 < len(raw); j += 2 {
				out[j], out[j+1] = raw[j+1], raw[j]
			}
			return out
		case 1:
			if mac == nil {
				mac = make([]byte, 0, len(raw)*2)
				for _, c := range raw {
					mac = append(mac, c, 0)
				}
			}
		}
	}
	return mac
}

func pad4(n int) int {
	return (n + 3) &^ 3
}
