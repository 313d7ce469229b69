package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/graphir/internal/ir"
)

// parser decodes one message. Nested messages get their own parser over
// the sub-slice of the field.
type parser struct {
	data  []byte
	pos   int
	path  string
	depth int
	opts  *Options

	// Current field, set by next.
	num   protowire.Number
	wt    protowire.Type
	start int

	unknown []byte
}

func newParser(data []byte, path string, opts *Options) *parser {
	return &parser{data: data, path: path, opts: opts}
}

func (p *parser) more() bool {
	return p.pos < len(p.data)
}

func (p *parser) malformed(format string, args ...any) error {
	return ir.Errorf(ir.KindMalformedEncoding, p.path, format, args...)
}

func (p *parser) parseErr(n int) error {
	return p.malformed("field %d at offset %d: %v", p.num, p.start, protowire.ParseError(n))
}

func (p *parser) wireErr(want protowire.Type) error {
	return p.malformed("field %d has wire type %d, want %d", p.num, p.wt, want)
}

// next reads the tag of the next field.
func (p *parser) next() error {
	p.start = p.pos
	num, wt, n := protowire.ConsumeTag(p.data[p.pos:])
	if n < 0 {
		return p.malformed("bad tag at offset %d: %v", p.pos, protowire.ParseError(n))
	}
	p.pos += n
	p.num, p.wt = num, wt
	return nil
}

func (p *parser) readVarint() (uint64, error) {
	if p.wt != protowire.VarintType {
		return 0, p.wireErr(protowire.VarintType)
	}
	v, n := protowire.ConsumeVarint(p.data[p.pos:])
	if n < 0 {
		return 0, p.parseErr(n)
	}
	p.pos += n
	return v, nil
}

func (p *parser) readInt64() (int64, error) {
	v, err := p.readVarint()
	return int64(v), err //nolint:gosec // G115: int64 fields are two's complement varints.
}

func (p *parser) readBool() (bool, error) {
	v, err := p.readVarint()
	return v != 0, err
}

func (p *parser) readFixed32() (uint32, error) {
	if p.wt != protowire.Fixed32Type {
		return 0, p.wireErr(protowire.Fixed32Type)
	}
	v, n := protowire.ConsumeFixed32(p.data[p.pos:])
	if n < 0 {
		return 0, p.parseErr(n)
	}
	p.pos += n
	return v, nil
}

func (p *parser) readFixed64() (uint64, error) {
	if p.wt != protowire.Fixed64Type {
		return 0, p.wireErr(protowire.Fixed64Type)
	}
	v, n := protowire.ConsumeFixed64(p.data[p.pos:])
	if n < 0 {
		return 0, p.parseErr(n)
	}
	p.pos += n
	return v, nil
}

// readBytes returns the payload of a length-delimited field. The slice
// aliases the input; builders copy it.
func (p *parser) readBytes() ([]byte, error) {
	if p.wt != protowire.BytesType {
		return nil, p.wireErr(protowire.BytesType)
	}
	v, n := protowire.ConsumeBytes(p.data[p.pos:])
	if n < 0 {
		return nil, p.parseErr(n)
	}
	p.pos += n
	return v, nil
}

func (p *parser) readString() (string, error) {
	v, err := p.readBytes()
	return string(v), err
}

// readVarints reads one element of a repeated varint field, or a packed run.
func (p *parser) readVarints(fn func(uint64)) error {
	if p.wt != protowire.BytesType {
		v, err := p.readVarint()
		if err != nil {
			return err
		}
		fn(v)
		return nil
	}
	data, err := p.readBytes()
	if err != nil {
		return err
	}
	for len(data) > 0 {
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return p.parseErr(n)
		}
		fn(v)
		data = data[n:]
	}
	return nil
}

// readFixed32s reads one element of a repeated fixed32 field, or a packed run.
func (p *parser) readFixed32s(fn func(uint32)) error {
	if p.wt != protowire.BytesType {
		v, err := p.readFixed32()
		if err != nil {
			return err
		}
		fn(v)
		return nil
	}
	data, err := p.readBytes()
	if err != nil {
		return err
	}
	if len(data)%4 != 0 {
		return p.malformed("packed field %d has %d bytes, not a multiple of 4", p.num, len(data))
	}
	for len(data) > 0 {
		v, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return p.parseErr(n)
		}
		fn(v)
		data = data[n:]
	}
	return nil
}

// readFixed64s reads one element of a repeated fixed64 field, or a packed run.
func (p *parser) readFixed64s(fn func(uint64)) error {
	if p.wt != protowire.BytesType {
		v, err := p.readFixed64()
		if err != nil {
			return err
		}
		fn(v)
		return nil
	}
	data, err := p.readBytes()
	if err != nil {
		return err
	}
	if len(data)%8 != 0 {
		return p.malformed("packed field %d has %d bytes, not a multiple of 8", p.num, len(data))
	}
	for len(data) > 0 {
		v, n := protowire.ConsumeFixed64(data)
		if n < 0 {
			return p.parseErr(n)
		}
		fn(v)
		data = data[n:]
	}
	return nil
}

// skipField consumes the current field and retains it as an unknown field.
func (p *parser) skipField() error {
	if err := p.discardField(); err != nil {
		return err
	}
	p.unknown = append(p.unknown, p.data[p.start:p.pos]...)
	return nil
}

// discardField skips the current field without retaining it. Unknown fields
// are kept only on messages that carry an Unknown slot; the small value
// messages (dims, shapes, segments, type and value components) drop them.
func (p *parser) discardField() error {
	n := protowire.ConsumeFieldValue(p.num, p.wt, p.data[p.pos:])
	if n < 0 {
		return p.parseErr(n)
	}
	p.pos += n
	return nil
}

// readSub decodes the current length-delimited field as a nested message.
func readSub[T any](p *parser, path string, read func(*parser) (T, error)) (T, error) {
	var zero T
	data, err := p.readBytes()
	if err != nil {
		return zero, err
	}
	if p.opts.MaxDepth > 0 && p.depth+1 > p.opts.MaxDepth {
		return zero, ir.Errorf(ir.KindMalformedEncoding, path, "message nesting exceeds %d levels", p.opts.MaxDepth)
	}
	sub := &parser{data: data, path: path, depth: p.depth + 1, opts: p.opts}
	return read(sub)
}

func wrap(what string, err error) error {
	return fmt.Errorf("decode %s: %w", what, err)
}
