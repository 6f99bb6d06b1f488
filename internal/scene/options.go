package scene

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

type options struct {
	log     zerolog.Logger
	lenient bool
	charset encoding.Encoding
}

func defaultOptions() options {
	return options{log: zerolog.Nop()}
}

// Option configures Parse.
type Option func(*options)

// WithLogger traces every visited chunk at debug level and recognized
// names at info level.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithLenientBounds drops the check that a child chunk ends inside its
// parent. Chunks that run past the buffer still fail when skipped.
func WithLenientBounds() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithCharset decodes names that are not valid UTF-8 through enc instead of
// failing. A nil enc keeps strict UTF-8.
func WithCharset(enc encoding.Encoding) Option {
	return func(o *options) {
		o.charset = enc
	}
}

// CharsetByName maps a code page name to its decoder. The empty string and
// "utf-8" return nil.
func CharsetByName(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1, nil
	case "cp437", "ibm437":
		return charmap.CodePage437, nil
	case "cp850", "ibm850":
		return charmap.CodePage850, nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251, nil
	}
	return nil, fmt.Errorf("unknown charset %q", name)
}
