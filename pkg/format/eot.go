package format

import (
	"context"
	"encoding/binary"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// eotParams has no options; the table exists so that an empty
// "eot" override is accepted and unknown keys are reported.
type eotParams struct{}

const (
	eotVersion     = 0x00020001
	eotMagic       = 0x504C
	eotCharsetDflt = 1
	eotFixedSize   = 82
)

// ConvertEOT wraps a TrueType font into an Embedded OpenType 2.1
// container. The header fields are copied from the font's OS/2, head
// and name tables; the font data itself is stored uncompressed.
func ConvertEOT(ctx context.Context, opts *Options, deps ...[]byte) ([]byte, error) {
	ttf, err := dependency(EOT, deps)
	if err != nil {
		return nil, err
	}
	var params eotParams
	if err := decodeOverride(opts, EOT, &params); err != nil {
		return nil, err
	}
	font, err := parseSFNT(ttf)
	if err != nil {
		return nil, err
	}
	return encodeEOT(font, ttf)
}

func encodeEOT(font *sfntFont, ttf []byte) ([]byte, error) {
	os2 := font.table("OS/2")
	if len(os2) < 78 {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "eot: font has no usable OS/2 table")
	}
	head := font.table("head")
	if len(head) < 12 {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "eot: font has no usable head table")
	}
	name := font.table("name")

	names := [][]byte{
		utf16LEName(name, nameFamily),
		utf16LEName(name, nameSubfamily),
		utf16LEName(name, nameVersion),
		utf16LEName(name, nameFullName),
	}

	size := eotFixedSize
	for _, n := range names {
		size += 2 + len(n) + 2
	}
	size += 2 // RootStringSize
	size += len(ttf)

	le := binary.LittleEndian
	be := binary.BigEndian
	buf := make([]byte, eotFixedSize, size)

	le.PutUint32(buf[0:], uint32(size))
	le.PutUint32(buf[4:], uint32(len(ttf)))
	le.PutUint32(buf[8:], eotVersion)
	// Flags stay zero: no subsetting, compression or obfuscation.
	copy(buf[16:26], os2[32:42]) // PANOSE
	buf[26] = eotCharsetDflt
	buf[27] = byte(be.Uint16(os2[62:64]) & 0x01) // fsSelection italic bit
	le.PutUint32(buf[28:], uint32(be.Uint16(os2[4:6])))
	le.PutUint16(buf[32:], be.Uint16(os2[8:10])) // fsType
	le.PutUint16(buf[34:], eotMagic)
	for i := 0; i < 4; i++ {
		le.PutUint32(buf[36+4*i:], be.Uint32(os2[42+4*i:]))
	}
	if len(os2) >= 86 {
		le.PutUint32(buf[52:], be.Uint32(os2[78:82]))
		le.PutUint32(buf[56:], be.Uint32(os2[82:86]))
	}
	le.PutUint32(buf[60:], be.Uint32(head[8:12])) // checkSumAdjustment
	// Reserved1-4 and Padding1 stay zero.

	for _, n := range names {
		buf = le.AppendUint16(buf, uint16(len(n)))
		buf = append(buf, n...)
		buf = le.AppendUint16(buf, 0)
	}
	buf = le.AppendUint16(buf, 0) // RootStringSize
	buf = append(buf, ttf...)
	return buf, nil
}
