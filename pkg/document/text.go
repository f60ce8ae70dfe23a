package document

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// textDecoders orders the decode attempts for plain text and markdown files.
// UTF-8 is tried first; GBK and GB18030 cover the GB2312 family; UTF-16 with
// BOM detection comes last.
var textDecoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"gbk", simplifiedchinese.GBK},
	{"gb18030", simplifiedchinese.GB18030},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
}

// ExtractText reads a plain text or markdown file, trying a ladder of
// encodings and returning the first clean decode.
func ExtractText(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, d := range textDecoders {
		decoded, err := d.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		// The decoders substitute U+FFFD instead of failing on bad input,
		// so treat any replacement character as a failed attempt.
		if s := string(decoded); !strings.ContainsRune(s, utf8.RuneError) {
			return s, nil
		}
	}

	return "", fmt.Errorf("cannot decode file %s with any supported encoding", path)
}
