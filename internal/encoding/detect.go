package encoding

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding an upload was decoded from.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8-BOM"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// sniffLen bounds how much of the file chardet looks at.
const sniffLen = 4096

// Detect guesses the charset of a registry export. SII downloads are usually
// UTF-8 (sometimes with BOM); spreadsheets re-saved on Windows come out as
// windows-1252.
func Detect(data []byte) Charset {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE
	}

	if utf8.Valid(data) {
		return UTF8
	}

	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return UTF8
		case "ISO-8859-9":
			return ISO88599
		}
	}

	return Windows1252
}

// DecodeString returns data as UTF-8 text together with the detected charset.
func DecodeString(data []byte) (string, Charset, error) {
	cs := Detect(data)

	switch cs {
	case UTF8:
		return string(data), cs, nil
	case UTF8BOM:
		return string(data[len(bomUTF8):]), cs, nil
	}

	out, _, err := transform.Bytes(decoder(cs), data)
	if err != nil {
		return "", cs, fmt.Errorf("decoding %s: %w", cs, err)
	}

	return string(out), cs, nil
}

// NewUTF8Reader buffers r and returns its text decoded to UTF-8.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read: %w", err)
	}

	text, cs, err := DecodeString(data)
	if err != nil {
		return nil, cs, err
	}

	return bytes.NewReader([]byte(text)), cs, nil
}

func decoder(cs Charset) transform.Transformer {
	var enc encoding.Encoding

	switch cs {
	case UTF16LE:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case ISO88599:
		enc = charmap.ISO8859_9
	default:
		enc = charmap.Windows1252
	}

	return enc.NewDecoder()
}
