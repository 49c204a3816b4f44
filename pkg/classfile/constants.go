package classfile

import "fmt"

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// constant is one constant pool slot. Only the parts the decoder resolves are kept.
type constant struct {
	tag  uint8
	text string
	ref  uint16
}

// constantPool is indexed from 1; slot 0 and the slot after a long or double
// are unusable and left zero.
type constantPool []constant

func readConstantPool(r *reader) (constantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}

	pool := make(constantPool, count)

	for i := 1; i < int(count); i++ {
		tag, tagErr := r.u1()
		if tagErr != nil {
			return nil, tagErr
		}

		idx := i
		c := constant{tag: tag}

		switch tag {
		case tagUtf8:
			length, lenErr := r.u2()
			if lenErr != nil {
				return nil, lenErr
			}

			b, bErr := r.bytes(int(length))
			if bErr != nil {
				return nil, bErr
			}

			c.text = string(b)
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			c.ref, err = r.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			err = r.skip(sizeU4)
		case tagLong, tagDouble:
			_, err = r.u8()
			// Eight-byte constants occupy two slots.
			i++
		case tagMethodHandle:
			err = r.skip(sizeU1 + sizeU2)
		default:
			return nil, fmt.Errorf("%w: tag %d at index %d", ErrBadConstant, tag, i)
		}

		if err != nil {
			return nil, err
		}

		pool[idx] = c
	}

	return pool, nil
}

func (p constantPool) entry(idx uint16, tag uint8) (constant, error) {
	if idx == 0 || int(idx) >= len(p) {
		return constant{}, fmt.Errorf("%w: index %d out of range", ErrBadConstant, idx)
	}

	c := p[idx]
	if c.tag != tag {
		return constant{}, fmt.Errorf("%w: index %d has tag %d, want %d", ErrBadConstant, idx, c.tag, tag)
	}

	return c, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	c, err := p.entry(idx, tagUtf8)
	if err != nil {
		return "", err
	}

	return c.text, nil
}

func (p constantPool) className(idx uint16) (string, error) {
	c, err := p.entry(idx, tagClass)
	if err != nil {
		return "", err
	}

	return p.utf8(c.ref)
}
