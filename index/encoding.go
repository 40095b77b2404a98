package index

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the byte-level line encoding detected from a file's
// leading bytes.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
)

func (e Encoding) String() string {
	switch e {
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	default:
		return "UTF-8"
	}
}

// detectEncoding inspects the leading bytes of data for a BOM and returns
// the detected encoding plus the number of leading bytes to skip (the BOM
// itself). Defaults to UTF-8 with no skip when no BOM is present.
func detectEncoding(data []byte) (Encoding, int) {
	switch {
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		return UTF16LE, 2
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		return UTF16BE, 2
	case len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF:
		return UTF8, 3
	default:
		return UTF8, 0
	}
}

// decoder returns the golang.org/x/text decoder for e, or nil for UTF8
// (decoded directly as Go strings, which already assume UTF-8).
func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return nil
	}
}

// decodeLine decodes the raw bytes of one line slice into a UTF-8 string.
// Invalid sequences become the Unicode replacement character, never an
// error — per spec, invalid per-line bytes never fail a query.
func decodeLine(e Encoding, raw []byte) string {
	dec := e.decoder()
	if dec == nil {
		return string(raw)
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		// The x/text UTF-16 decoder already substitutes U+FFFD for
		// unpaired surrogates; a hard error here means a truncated
		// trailing code unit, which we still want to render best-effort.
		if out == nil {
			return string(raw)
		}
	}
	return string(out)
}
