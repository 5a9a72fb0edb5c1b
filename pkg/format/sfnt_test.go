package format

import (
	"bytes"
	"encoding/binary"
	"io"
	"slices"
	"testing"

	"github.com/klauspost/compress/zlib"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// buildSFNT assembles a minimal TrueType container from raw tables.
func buildSFNT(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	be := binary.BigEndian
	out := make([]byte, sfntHeaderSize+len(tags)*sfntTableRecordSize)
	be.PutUint32(out[0:], 0x00010000)
	be.PutUint16(out[4:], uint16(len(tags)))
	for i, tag := range tags {
		data := tables[tag]
		rec := out[sfntHeaderSize+i*sfntTableRecordSize:]
		copy(rec[0:4], tag)
		be.PutUint32(rec[4:], sfntChecksum(data))
		be.PutUint32(rec[8:], uint32(len(out)))
		be.PutUint32(rec[12:], uint32(len(data)))
		out = append(out, data...)
		out = padTo4(out)
	}
	return out
}

// testTables returns head, OS/2 and name tables with recognisable values.
func testTables() map[string][]byte {
	be := binary.BigEndian

	head := make([]byte, 54)
	be.PutUint16(head[4:], 1) // fontRevision 1.5
	be.PutUint16(head[6:], 0x8000)
	be.PutUint32(head[8:], 0xDEADBEEF)

	os2 := make([]byte, 96)
	be.PutUint16(os2[4:], 400)    // usWeightClass
	be.PutUint16(os2[8:], 0x0008) // fsType
	for i := 0; i < 10; i++ {
		os2[32+i] = byte(i + 1) // PANOSE
	}
	be.PutUint32(os2[42:], 0x11111111)
	be.PutUint32(os2[54:], 0x44444444)
	be.PutUint16(os2[62:], 0x0001) // italic
	be.PutUint32(os2[78:], 0x00000001)
	be.PutUint32(os2[82:], 0x80000000)

	family := []byte{0, 'T', 0, 'e', 0, 's', 0, 't'}
	name := make([]byte, 18)
	be.PutUint16(name[2:], 1)  // count
	be.PutUint16(name[4:], 18) // storage offset
	rec := name[6:]
	be.PutUint16(rec[0:], 3)
	be.PutUint16(rec[2:], 1)
	be.PutUint16(rec[4:], 0x409)
	be.PutUint16(rec[6:], nameFamily)
	be.PutUint16(rec[8:], uint16(len(family)))
	name = append(name, family...)

	glyf := bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7}, 64)

	return map[string][]byte{"head": head, "OS/2": os2, "name": name, "glyf": glyf}
}

func TestParseSFNT(t *testing.T) {
	tables := testTables()
	font, err := parseSFNT(buildSFNT(tables))
	if err != nil {
		t.Fatalf("parseSFNT() error = %v", err)
	}
	if len(font.tables) != len(tables) {
		t.Fatalf("parsed %d tables, want %d", len(font.tables), len(tables))
	}
	for tag, data := range tables {
		if !bytes.Equal(font.table(tag), data) {
			t.Errorf("table %q differs", tag)
		}
	}
	if font.table("cmap") != nil {
		t.Error("missing table should be nil")
	}
}

func TestParseSFNTRejectsBrokenFonts(t *testing.T) {
	valid := buildSFNT(testTables())
	tests := map[string][]byte{
		"truncated header":    valid[:8],
		"no tables":           make([]byte, 12),
		"truncated directory": valid[:20],
		"table past end":      valid[:len(valid)-100],
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseSFNT(data)
			if !ierrors.Is(err, ierrors.ErrCodeConversion) {
				t.Errorf("parseSFNT() error = %v, want CONVERSION_FAILED", err)
			}
		})
	}
}

func TestUTF16LEName(t *testing.T) {
	name := testTables()["name"]
	if got := utf16LEName(name, nameFamily); !bytes.Equal(got, []byte("T\x00e\x00s\x00t\x00")) {
		t.Errorf("family = %q", got)
	}
	if got := utf16LEName(name, nameFullName); got != nil {
		t.Errorf("missing name = %q, want nil", got)
	}
}

func TestEncodeWOFF(t *testing.T) {
	tables := testTables()
	ttf := buildSFNT(tables)
	meta := []byte(`<?xml version="1.0"?><metadata version="1.0"/>`)

	out, err := ConvertWOFF(t.Context(), &Options{
		FormatOptions: map[ID]map[string]any{WOFF: {"metadata": string(meta)}},
	}, ttf)
	if err != nil {
		t.Fatalf("ConvertWOFF() error = %v", err)
	}

	be := binary.BigEndian
	if be.Uint32(out[0:]) != woffSignature {
		t.Fatalf("signature = %#x", be.Uint32(out[0:]))
	}
	if be.Uint32(out[4:]) != 0x00010000 {
		t.Errorf("flavor = %#x", be.Uint32(out[4:]))
	}
	if int(be.Uint32(out[8:])) != len(out) {
		t.Errorf("length = %d, want %d", be.Uint32(out[8:]), len(out))
	}
	n := int(be.Uint16(out[12:]))
	if n != len(tables) {
		t.Fatalf("numTables = %d, want %d", n, len(tables))
	}
	if major, minor := be.Uint16(out[20:]), be.Uint16(out[22:]); major != 1 || minor != 0x8000 {
		t.Errorf("version = %d.%d", major, minor)
	}

	wantTotal := sfntHeaderSize + n*sfntTableRecordSize
	for i := 0; i < n; i++ {
		rec := out[woffHeaderSize+i*woffTableRecordSize:]
		tag := string(rec[0:4])
		offset, compLen, origLen := be.Uint32(rec[4:]), be.Uint32(rec[8:]), be.Uint32(rec[12:])
		if offset%4 != 0 {
			t.Errorf("table %q offset %d is not 4-byte aligned", tag, offset)
		}
		data := out[offset : offset+compLen]
		if compLen < origLen {
			data = inflate(t, data)
		}
		if !bytes.Equal(data, tables[tag]) {
			t.Errorf("table %q does not round-trip", tag)
		}
		if be.Uint32(rec[16:]) != sfntChecksum(tables[tag]) {
			t.Errorf("table %q checksum mismatch", tag)
		}
		wantTotal += pad4(int(origLen))
	}
	if got := int(be.Uint32(out[16:])); got != wantTotal {
		t.Errorf("totalSfntSize = %d, want %d", got, wantTotal)
	}

	metaOff, metaLen, metaOrig := be.Uint32(out[24:]), be.Uint32(out[28:]), be.Uint32(out[32:])
	if int(metaOrig) != len(meta) {
		t.Errorf("metaOrigLength = %d, want %d", metaOrig, len(meta))
	}
	if got := inflate(t, out[metaOff:metaOff+metaLen]); !bytes.Equal(got, meta) {
		t.Errorf("metadata = %q", got)
	}
}

func TestEncodeWOFFWithoutMetadata(t *testing.T) {
	out, err := ConvertWOFF(t.Context(), &Options{}, buildSFNT(testTables()))
	if err != nil {
		t.Fatalf("ConvertWOFF() error = %v", err)
	}
	be := binary.BigEndian
	if be.Uint32(out[24:]) != 0 || be.Uint32(out[28:]) != 0 {
		t.Error("metadata block written without metadata")
	}
}

func inflate(t *testing.T, data []byte) []byte {
	t.Helper()
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("zlib.NewReader() error = %v", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	return out
}

func TestEncodeEOT(t *testing.T) {
	ttf := buildSFNT(testTables())
	out, err := ConvertEOT(t.Context(), &Options{}, ttf)
	if err != nil {
		t.Fatalf("ConvertEOT() error = %v", err)
	}

	le := binary.LittleEndian
	if int(le.Uint32(out[0:])) != len(out) {
		t.Errorf("EOTSize = %d, want %d", le.Uint32(out[0:]), len(out))
	}
	if int(le.Uint32(out[4:])) != len(ttf) {
		t.Errorf("FontDataSize = %d, want %d", le.Uint32(out[4:]), len(ttf))
	}
	if le.Uint32(out[8:]) != eotVersion {
		t.Errorf("Version = %#x", le.Uint32(out[8:]))
	}
	if !bytes.Equal(out[16:26], []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}) {
		t.Errorf("PANOSE = %v", out[16:26])
	}
	if out[26] != 1 || out[27] != 1 {
		t.Errorf("Charset = %d, Italic = %d", out[26], out[27])
	}
	if le.Uint32(out[28:]) != 400 {
		t.Errorf("Weight = %d", le.Uint32(out[28:]))
	}
	if le.Uint16(out[32:]) != 8 {
		t.Errorf("fsType = %d", le.Uint16(out[32:]))
	}
	if le.Uint16(out[34:]) != eotMagic {
		t.Errorf("MagicNumber = %#x", le.Uint16(out[34:]))
	}
	if le.Uint32(out[36:]) != 0x11111111 || le.Uint32(out[48:]) != 0x44444444 {
		t.Error("UnicodeRange not copied")
	}
	if le.Uint32(out[52:]) != 1 || le.Uint32(out[56:]) != 0x80000000 {
		t.Error("CodePageRange not copied")
	}
	if le.Uint32(out[60:]) != 0xDEADBEEF {
		t.Errorf("CheckSumAdjustment = %#x", le.Uint32(out[60:]))
	}

	names := out[eotFixedSize:]
	if le.Uint16(names) != 8 || string(names[2:10]) != "T\x00e\x00s\x00t\x00" {
		t.Errorf("FamilyName = %q", names[:10])
	}
	if want := eotFixedSize + 12 + 3*4 + 2 + len(ttf); len(out) != want {
		t.Errorf("len = %d, want %d", len(out), want)
	}
	if !bytes.HasSuffix(out, ttf) {
		t.Error("font data is not stored verbatim at the end")
	}
}

func TestEncodeEOTRequiresOS2(t *testing.T) {
	tables := testTables()
	delete(tables, "OS/2")
	_, err := ConvertEOT(t.Context(), &Options{}, buildSFNT(tables))
	if !ierrors.Is(err, ierrors.ErrCodeConversion) {
		t.Errorf("ConvertEOT() error = %v, want CONVERSION_FAILED", err)
	}
}

func TestEOTRejectsUnknownOptions(t *testing.T) {
	_, err := ConvertEOT(t.Context(), &Options{
		FormatOptions: map[ID]map[string]any{EOT: {"compress": true}},
	}, buildSFNT(testTables()))
	if !ierrors.Is(err, ierrors.ErrCodeInvalidConfig) {
		t.Errorf("ConvertEOT() error = %v, want INVALID_CONFIG", err)
	}
}
