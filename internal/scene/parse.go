package scene

import (
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"

	"github.com/ernie/threeds/internal/chunk"
)

// Parse decodes a complete 3DS buffer. The first chunk must be the main
// chunk; any other ID means the buffer is not a 3DS file. Below the root,
// unrecognized chunks are skipped. On error no partial tree is returned.
//
// Unless WithLenientBounds is given, every chunk must end inside its parent.
func Parse(data []byte, opts ...Option) (*Root, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{
		r:       chunk.NewReader(data),
		log:     o.log,
		lenient: o.lenient,
		charset: o.charset,
	}
	return p.readMain()
}

type parser struct {
	r       *chunk.Reader
	log     zerolog.Logger
	lenient bool
	charset encoding.Encoding
}

func (p *parser) readMain() (*Root, error) {
	h, err := p.r.ReadHeader()
	if err != nil && !errors.Is(err, chunk.ErrBadLength) {
		return nil, err
	}
	if h.ID != chunk.Main {
		return nil, &chunk.Error{Op: "read root", Offset: h.Offset, ID: h.ID, Err: chunk.ErrUnsupportedRoot}
	}
	if err != nil {
		return nil, err
	}
	if err := p.contain(h, p.r.Len()); err != nil {
		return nil, err
	}
	p.trace(h).Msg("root chunk")

	root := &Root{}
	err = p.children(h, func(c chunk.Header) error {
		switch c.ID {
		case chunk.MainVersion, chunk.Keyframer:
			p.trace(c).Msg("main chunk")
		case chunk.Editor:
			p.trace(c).Msg("scene chunk")
			ed, err := p.readEditor(c)
			if err != nil {
				return err
			}
			root.Editors = append(root.Editors, ed)
		default:
			p.skip(c, "main")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (p *parser) readEditor(h chunk.Header) (*Editor, error) {
	ed := &Editor{}
	err := p.children(h, func(c chunk.Header) error {
		switch c.ID {
		case chunk.MeshVersion:
			p.trace(c).Msg("editor version")
		case chunk.Material:
			p.trace(c).Msg("editor material")
			m, err := p.readMaterial(c)
			if err != nil {
				return err
			}
			ed.Materials = append(ed.Materials, m)
		default:
			p.skip(c, "editor")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ed, nil
}

func (p *parser) readMaterial(h chunk.Header) (*Material, error) {
	m := &Material{}
	err := p.children(h, func(c chunk.Header) error {
		switch c.ID {
		case chunk.MaterialName:
			name, err := p.readString(c)
			if err != nil {
				return err
			}
			p.log.Info().Str("name", name).Int64("offset", c.Offset).Msg("material name")
			m.Items = append(m.Items, MaterialName(name))
		case chunk.TextureMap:
			p.trace(c).Msg("material texture map")
			tm, err := p.readTextureMap(c)
			if err != nil {
				return err
			}
			m.Items = append(m.Items, tm)
		default:
			p.skip(c, "material")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (p *parser) readTextureMap(h chunk.Header) (*TextureMap, error) {
	tm := &TextureMap{}
	err := p.children(h, func(c chunk.Header) error {
		switch c.ID {
		case chunk.MapFileName:
			name, err := p.readString(c)
			if err != nil {
				return err
			}
			p.log.Info().Str("name", name).Int64("offset", c.Offset).Msg("material texture map name")
			tm.Entries = append(tm.Entries, TextureMapName(name))
		default:
			p.skip(c, "texture map")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tm, nil
}

// children reads the child chunks of parent one by one, hands each to fn and
// then moves the cursor to the child's end, whatever fn consumed.
func (p *parser) children(parent chunk.Header, fn func(chunk.Header) error) error {
	for p.r.Pos() < parent.End() {
		c, err := p.r.ReadHeader()
		if err != nil {
			return err
		}
		if err := p.contain(c, parent.End()); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		if err := p.r.SkipTo(c); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) contain(h chunk.Header, end int64) error {
	if p.lenient {
		return nil
	}
	return h.Within(end)
}

// readString reads the null-terminated name that starts right after h's header.
func (p *parser) readString(h chunk.Header) (string, error) {
	b, err := p.r.ReadCString(h)
	if err != nil {
		return "", err
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	if p.charset != nil {
		if s, err := p.charset.NewDecoder().Bytes(b); err == nil {
			return string(s), nil
		}
	}
	return "", &chunk.Error{Op: "decode string", Offset: h.BodyOffset(), ID: h.ID, Err: chunk.ErrInvalidUTF8}
}

func (p *parser) trace(h chunk.Header) *zerolog.Event {
	return p.log.Debug().
		Str("chunk", chunk.Name(h.ID)).
		Int64("offset", h.Offset).
		Int64("end", h.End())
}

func (p *parser) skip(h chunk.Header, level string) {
	p.trace(h).Bool("skip", true).Bool("known", chunk.Known(h.ID)).Msgf("unknown %s chunk", level)
}
