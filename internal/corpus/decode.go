package corpus

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// Supported file encodings.
const (
	EncodingAuto   = "auto"
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
	EncodingDetect = "detect"
)

// Decode converts raw file bytes to a string.
//
// auto keeps valid UTF-8 as is and reads anything else as ISO-8859-1, which maps
// every byte to a rune and therefore never fails. detect also keeps valid UTF-8,
// but otherwise asks a charset detector and falls back to ISO-8859-1 when the
// guess is unknown.
func Decode(b []byte, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingAuto:
		if utf8.Valid(b) {
			return string(b), nil
		}
		return decodeLatin1(b)
	case EncodingUTF8, "utf8":
		if !utf8.Valid(b) {
			return "", fmt.Errorf("invalid UTF-8 input")
		}
		return string(b), nil
	case EncodingLatin1, "latin1", "iso-8859-1":
		return decodeLatin1(b)
	case EncodingDetect:
		if utf8.Valid(b) {
			return string(b), nil
		}
		return decodeWith(detectEncoding(b), b)
	default:
		return "", fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

func decodeLatin1(b []byte) (string, error) {
	return decodeWith(charmap.ISO8859_1, b)
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// detectEncoding guesses the charset of b. ISO-8859-1 is returned for anything
// the detector or the WHATWG index cannot name.
func detectEncoding(b []byte) encoding.Encoding {
	res, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil || res == nil {
		return charmap.ISO8859_1
	}
	if strings.EqualFold(res.Charset, "ISO-8859-1") {
		return charmap.ISO8859_1
	}
	enc, err := htmlindex.Get(res.Charset)
	if err != nil {
		return charmap.ISO8859_1
	}
	return enc
}
