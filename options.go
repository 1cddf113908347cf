package goadt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/axgle/mahonia"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used for names and non-wide strings unless
// WithEncoding says otherwise.
const DefaultEncoding = "ISO-8859-1"

// options defines the configuration shared by the schema reader, the
// decoder and the table handlers.
type options struct {
	encoding      string       // charset of names and single-byte strings
	logger        *slog.Logger // debug and warning output
	strictOffsets bool         // fail on descriptor start offset mismatch
}

// Option configures a reader.
type Option func(*options)

// WithEncoding sets the charset used for field names and single-byte
// string fields, e.g. "ISO-8859-1", "windows-1252" or "GBK".
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStrictOffsets makes schema parsing fail when a descriptor's start
// offset disagrees with the computed position of the field. Without it the
// mismatch is only logged.
func WithStrictOffsets(strict bool) Option {
	return func(o *options) {
		o.strictOffsets = strict
	}
}

func defaultOptions() options {
	return options{
		encoding: DefaultEncoding,
		logger:   slog.New(slog.DiscardHandler),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// textCodec turns raw field bytes into strings.
type textCodec struct {
	text mahonia.Decoder
	wide *encoding.Decoder
}

func newTextCodec(name string) (*textCodec, error) {
	dec := mahonia.NewDecoder(name)
	if dec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return &textCodec{
		text: dec,
		wide: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(),
	}, nil
}

func (c *textCodec) narrow(b []byte) string {
	return c.text.ConvertString(string(b))
}

func (c *textCodec) utf16(b []byte) (string, error) {
	s, err := c.wide.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("%w: utf-16: %v", ErrMalformedValue, err)
	}
	return string(s), nil
}

// clean drops NUL characters and trims the result.
func clean(s string) string {
	return trim(strings.ReplaceAll(s, "\x00", ""))
}

// trim strips leading and trailing characters up to and including space,
// control characters and NUL among them. Other Unicode spaces are kept.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}
