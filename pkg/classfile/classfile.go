// Package classfile decodes compiled JVM class files into fields, methods and
// normalized bytecode instructions.
package classfile

import (
	"errors"
	"fmt"
)

// Sentinel decode errors.
var (
	ErrBadMagic           = errors.New("not a class file: bad magic number")
	ErrTruncated          = errors.New("class file truncated")
	ErrBadConstant        = errors.New("bad constant pool entry")
	ErrUnknownOpcode      = errors.New("unknown opcode")
	ErrUnsupportedVersion = errors.New("unsupported class file version")
	ErrBadCode            = errors.New("malformed code attribute")
)

const (
	magic = 0xCAFEBABE

	// minMajorVersion is JDK 1.1. Older files use narrower Code attribute fields.
	minMajorVersion = 45

	attrCode = "Code"
)

// ClassFile is a decoded class.
type ClassFile struct {
	MinorVersion int
	MajorVersion int
	Access       AccessFlags
	Name         string
	SuperName    string
	Interfaces   []string
	Fields       []Field
	Methods      []Method

	pool constantPool
}

// Field is a declared field.
type Field struct {
	Access     AccessFlags
	Name       string
	Descriptor string
}

// Method is a declared method. Code is nil for abstract and native methods.
type Method struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Code       *Code
}

// member is the shared field_info / method_info layout.
type member struct {
	access     AccessFlags
	name       string
	descriptor string
	attributes map[string][]byte
}

// Parse decodes a complete class file.
func Parse(data []byte) (*ClassFile, error) {
	r := newReader(data)

	m, err := r.u4()
	if err != nil {
		return nil, err
	}

	if m != magic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, m)
	}

	cf := &ClassFile{}

	err = cf.readHeader(r)
	if err != nil {
		return nil, err
	}

	err = cf.readMembers(r)
	if err != nil {
		return nil, err
	}

	return cf, nil
}

func (cf *ClassFile) readHeader(r *reader) error {
	minor, err := r.u2()
	if err != nil {
		return err
	}

	major, err := r.u2()
	if err != nil {
		return err
	}

	if major < minMajorVersion {
		return fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, major, minor)
	}

	cf.MinorVersion, cf.MajorVersion = int(minor), int(major)

	cf.pool, err = readConstantPool(r)
	if err != nil {
		return err
	}

	access, err := r.u2()
	if err != nil {
		return err
	}

	cf.Access = AccessFlags(access)

	cf.Name, err = cf.classRef(r, false)
	if err != nil {
		return fmt.Errorf("this_class: %w", err)
	}

	// java/lang/Object and module-info have no super class.
	cf.SuperName, err = cf.classRef(r, true)
	if err != nil {
		return fmt.Errorf("super_class: %w", err)
	}

	count, err := r.u2()
	if err != nil {
		return err
	}

	cf.Interfaces = make([]string, 0, count)

	for range count {
		name, ifaceErr := cf.classRef(r, false)
		if ifaceErr != nil {
			return fmt.Errorf("interface: %w", ifaceErr)
		}

		cf.Interfaces = append(cf.Interfaces, name)
	}

	return nil
}

func (cf *ClassFile) classRef(r *reader, optional bool) (string, error) {
	idx, err := r.u2()
	if err != nil {
		return "", err
	}

	if idx == 0 && optional {
		return "", nil
	}

	return cf.pool.className(idx)
}

func (cf *ClassFile) readMembers(r *reader) error {
	fields, err := cf.readMemberList(r)
	if err != nil {
		return fmt.Errorf("fields: %w", err)
	}

	cf.Fields = make([]Field, 0, len(fields))
	for _, f := range fields {
		cf.Fields = append(cf.Fields, Field{Access: f.access, Name: f.name, Descriptor: f.descriptor})
	}

	methods, err := cf.readMemberList(r)
	if err != nil {
		return fmt.Errorf("methods: %w", err)
	}

	cf.Methods = make([]Method, 0, len(methods))

	for _, m := range methods {
		method := Method{Access: m.access, Name: m.name, Descriptor: m.descriptor}

		if body, ok := m.attributes[attrCode]; ok {
			method.Code, err = decodeCode(body)
			if err != nil {
				return fmt.Errorf("method %s%s: %w", m.name, m.descriptor, err)
			}
		}

		cf.Methods = append(cf.Methods, method)
	}

	// Class-level attributes (SourceFile, InnerClasses, ...) carry nothing the
	// analysis needs, so decoding stops after the method table.
	return nil
}

func (cf *ClassFile) readMemberList(r *reader) ([]member, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}

	members := make([]member, 0, count)

	for range count {
		m, memberErr := cf.readMember(r)
		if memberErr != nil {
			return nil, memberErr
		}

		members = append(members, m)
	}

	return members, nil
}

func (cf *ClassFile) readMember(r *reader) (member, error) {
	var m member

	access, err := r.u2()
	if err != nil {
		return m, err
	}

	m.access = AccessFlags(access)

	m.name, err = cf.utf8Ref(r)
	if err != nil {
		return m, err
	}

	m.descriptor, err = cf.utf8Ref(r)
	if err != nil {
		return m, err
	}

	m.attributes, err = cf.readAttributes(r)

	return m, err
}

func (cf *ClassFile) utf8Ref(r *reader) (string, error) {
	idx, err := r.u2()
	if err != nil {
		return "", err
	}

	return cf.pool.utf8(idx)
}

func (cf *ClassFile) readAttributes(r *reader) (map[string][]byte, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}

	attrs := make(map[string][]byte, count)

	for range count {
		name, nameErr := cf.utf8Ref(r)
		if nameErr != nil {
			return nil, nameErr
		}

		length, lenErr := r.u4()
		if lenErr != nil {
			return nil, lenErr
		}

		body, bodyErr := r.bytes(int(length))
		if bodyErr != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, bodyErr)
		}

		attrs[name] = body
	}

	return attrs, nil
}

// InstructionCount returns the number of decoded instructions across all methods.
func (cf *ClassFile) InstructionCount() int {
	n := 0

	for _, m := range cf.Methods {
		if m.Code != nil {
			n += len(m.Code.Instructions)
		}
	}

	return n
}
