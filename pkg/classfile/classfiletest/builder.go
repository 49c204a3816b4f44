// Package classfiletest assembles small class files in memory for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"

	"github.com/Sumatoshi-tech/lockcov/pkg/classfile"
	"github.com/Sumatoshi-tech/lockcov/pkg/safeconv"
)

const (
	defaultMajor = 52 // Java 8.
	maxStack     = 8
	maxLocals    = 8
)

type member struct {
	access     classfile.AccessFlags
	name       string
	descriptor string
	code       []byte
	hasCode    bool
}

// Builder accumulates the parts of a class file. The zero value is not usable; call New.
type Builder struct {
	name    string
	super   string
	major   uint16
	longs   []int64
	fields  []member
	methods []member
}

// New starts a class with the given internal name extending java/lang/Object.
func New(name string) *Builder {
	return &Builder{name: name, super: "java/lang/Object", major: defaultMajor}
}

// Version overrides the class file major version.
func (b *Builder) Version(major uint16) *Builder {
	b.major = major

	return b
}

// LongConstant adds a long constant, which occupies two constant pool slots.
func (b *Builder) LongConstant(v int64) *Builder {
	b.longs = append(b.longs, v)

	return b
}

// Field declares a field.
func (b *Builder) Field(access classfile.AccessFlags, name, descriptor string) *Builder {
	b.fields = append(b.fields, member{access: access, name: name, descriptor: descriptor})

	return b
}

// Method declares a method with a Code attribute holding code.
func (b *Builder) Method(access classfile.AccessFlags, name, descriptor string, code []byte) *Builder {
	b.methods = append(b.methods, member{access: access, name: name, descriptor: descriptor, code: code, hasCode: true})

	return b
}

// AbstractMethod declares a method without a Code attribute.
func (b *Builder) AbstractMethod(name, descriptor string) *Builder {
	b.methods = append(b.methods, member{
		access:     classfile.AccPublic | classfile.AccAbstract,
		name:       name,
		descriptor: descriptor,
	})

	return b
}

// Bytes serializes the class file.
func (b *Builder) Bytes() []byte {
	p := newPool()

	thisIdx := p.class(b.name)
	superIdx := p.class(b.super)
	codeIdx := p.utf8("Code")

	for _, v := range b.longs {
		p.long(v)
	}

	type resolved struct {
		m          member
		name, desc uint16
	}

	resolve := func(ms []member) []resolved {
		out := make([]resolved, 0, len(ms))
		for _, m := range ms {
			out = append(out, resolved{m: m, name: p.utf8(m.name), desc: p.utf8(m.descriptor)})
		}

		return out
	}

	fields := resolve(b.fields)
	methods := resolve(b.methods)

	var out bytes.Buffer

	put := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }

	put(uint32(0xCAFEBABE))
	put(uint16(0))
	put(b.major)
	put(p.count())
	out.Write(p.buf.Bytes())
	put(uint16(0x0021)) // ACC_PUBLIC | ACC_SUPER
	put(thisIdx)
	put(superIdx)
	put(uint16(0)) // interfaces

	put(safeconv.MustIntToUint16(len(fields)))

	for _, f := range fields {
		put(uint16(f.m.access))
		put(f.name)
		put(f.desc)
		put(uint16(0))
	}

	put(safeconv.MustIntToUint16(len(methods)))

	for _, m := range methods {
		put(uint16(m.m.access))
		put(m.name)
		put(m.desc)

		if !m.m.hasCode {
			put(uint16(0))

			continue
		}

		put(uint16(1))
		put(codeIdx)

		body := codeAttribute(m.m.code)
		put(safeconv.MustIntToUint32(len(body)))
		out.Write(body)
	}

	put(uint16(0)) // class attributes

	return out.Bytes()
}

func codeAttribute(code []byte) []byte {
	var body bytes.Buffer

	put := func(v any) { _ = binary.Write(&body, binary.BigEndian, v) }

	put(uint16(maxStack))
	put(uint16(maxLocals))
	put(safeconv.MustIntToUint32(len(code)))
	body.Write(code)
	put(uint16(0)) // exception table
	put(uint16(0)) // attributes

	return body.Bytes()
}

// pool interns constant pool entries in insertion order.
type pool struct {
	buf   bytes.Buffer
	next  uint16
	index map[string]uint16
}

func newPool() *pool {
	return &pool{next: 1, index: make(map[string]uint16)}
}

func (p *pool) count() uint16 {
	return p.next
}

func (p *pool) utf8(s string) uint16 {
	key := "u:" + s
	if idx, ok := p.index[key]; ok {
		return idx
	}

	p.buf.WriteByte(1)
	_ = binary.Write(&p.buf, binary.BigEndian, safeconv.MustIntToUint16(len(s)))
	p.buf.WriteString(s)

	return p.add(key)
}

func (p *pool) class(name string) uint16 {
	key := "c:" + name
	if idx, ok := p.index[key]; ok {
		return idx
	}

	nameIdx := p.utf8(name)

	p.buf.WriteByte(7)
	_ = binary.Write(&p.buf, binary.BigEndian, nameIdx)

	return p.add(key)
}

func (p *pool) long(v int64) {
	p.buf.WriteByte(5)
	_ = binary.Write(&p.buf, binary.BigEndian, v)
	p.next += 2
}

func (p *pool) add(key string) uint16 {
	idx := p.next
	p.index[key] = idx
	p.next++

	return idx
}

// Op encodes one instruction: the opcode followed by raw operand bytes.
func Op(op classfile.Opcode, operands ...byte) []byte {
	return append([]byte{byte(op)}, operands...)
}

// Branch encodes a two-byte-offset branch instruction.
func Branch(op classfile.Opcode, delta int16) []byte {
	return []byte{byte(op), byte(uint16(delta) >> 8), byte(uint16(delta))}
}

// Code concatenates encoded instructions into a code array.
func Code(insns ...[]byte) []byte {
	return bytes.Join(insns, nil)
}

// Repeat returns insn encoded n times.
func Repeat(insn []byte, n int) []byte {
	return bytes.Repeat(insn, n)
}
