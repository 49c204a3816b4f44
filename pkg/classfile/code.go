package classfile

import "fmt"

// switchAlignment is the boundary tableswitch and lookupswitch operands are padded to.
const switchAlignment = 4

// Instruction is one decoded bytecode instruction.
//
// Opcodes are normalized the way visitor-style readers report them: compact
// xload_n/xstore_n forms become their base opcode with Operand set to the slot,
// wide forms become their narrow counterpart, goto_w/jsr_w become goto/jsr and
// ldc_w/ldc2_w become ldc. Offset always refers to the raw position in the code array.
type Instruction struct {
	Offset  int
	Opcode  Opcode
	Kind    Kind
	Operand int
}

// Code is the decoded Code attribute of a method.
type Code struct {
	MaxStack     int
	MaxLocals    int
	Instructions []Instruction
	Handlers     int
}

// decodeCode parses a Code attribute body.
func decodeCode(body []byte) (*Code, error) {
	r := newReader(body)

	maxStack, err := r.u2()
	if err != nil {
		return nil, err
	}

	maxLocals, err := r.u2()
	if err != nil {
		return nil, err
	}

	codeLength, err := r.u4()
	if err != nil {
		return nil, err
	}

	raw, err := r.bytes(int(codeLength))
	if err != nil {
		return nil, err
	}

	handlers, err := r.u2()
	if err != nil {
		return nil, err
	}

	// Exception table entries are four u2 values each; the trailing attributes
	// of the Code attribute are not needed.
	err = r.skip(int(handlers) * sizeU2 * 4)
	if err != nil {
		return nil, err
	}

	insns, err := DecodeInstructions(raw)
	if err != nil {
		return nil, err
	}

	return &Code{
		MaxStack:     int(maxStack),
		MaxLocals:    int(maxLocals),
		Instructions: insns,
		Handlers:     int(handlers),
	}, nil
}

// DecodeInstructions decodes a raw code array into normalized instructions.
func DecodeInstructions(code []byte) ([]Instruction, error) {
	r := newReader(code)
	insns := make([]Instruction, 0, len(code)/2)

	for r.remaining() > 0 {
		insn, err := decodeOne(r)
		if err != nil {
			return nil, err
		}

		insns = append(insns, insn)
	}

	return insns, nil
}

//nolint:cyclop,funlen,gocyclo // one case per operand layout.
func decodeOne(r *reader) (Instruction, error) {
	offset := r.offset

	raw, err := r.u1()
	if err != nil {
		return Instruction{}, err
	}

	op := Opcode(raw)
	if !op.Defined() {
		return Instruction{}, fmt.Errorf("%w: %d at offset %d", ErrUnknownOpcode, raw, offset)
	}

	insn := Instruction{Offset: offset, Opcode: op}

	if base, slot, ok := shortVarBase(op); ok {
		insn.Opcode = base
		insn.Operand = slot
		insn.Kind = KindVarInsn

		return insn, nil
	}

	switch op {
	case Bipush, Newarray:
		v, readErr := r.s1()
		insn.Operand = int(v)
		err = readErr
	case Sipush:
		v, readErr := r.s2()
		insn.Operand = int(v)
		err = readErr
	case Ldc:
		v, readErr := r.u1()
		insn.Operand = int(v)
		err = readErr
	case LdcW, Ldc2W:
		v, readErr := r.u2()
		insn.Opcode = Ldc
		insn.Operand = int(v)
		err = readErr
	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore, Ret:
		v, readErr := r.u1()
		insn.Operand = int(v)
		err = readErr
	case Iinc:
		v, readErr := r.u1()
		insn.Operand = int(v)
		err = readErr
		if err == nil {
			err = r.skip(sizeU1)
		}
	case GotoW, JsrW:
		v, readErr := r.s4()
		insn.Opcode = Goto + (op - GotoW)
		insn.Operand = offset + int(v)
		err = readErr
	case Tableswitch:
		err = skipTableSwitch(r, offset)
	case Lookupswitch:
		err = skipLookupSwitch(r, offset)
	case Invokeiface:
		v, readErr := r.u2()
		insn.Operand = int(v)
		err = readErr
		if err == nil {
			err = r.skip(sizeU1 + sizeU1)
		}
	case Invokedynamic:
		v, readErr := r.u2()
		insn.Operand = int(v)
		err = readErr
		if err == nil {
			err = r.skip(sizeU2)
		}
	case Multianewarr:
		v, readErr := r.u2()
		insn.Operand = int(v)
		err = readErr
		if err == nil {
			err = r.skip(sizeU1)
		}
	case Wide:
		return decodeWide(r, offset)
	default:
		switch kindOf(op) {
		case KindJumpInsn:
			v, readErr := r.s2()
			insn.Operand = offset + int(v)
			err = readErr
		case KindFieldInsn, KindMethodInsn, KindTypeInsn:
			v, readErr := r.u2()
			insn.Operand = int(v)
			err = readErr
		default:
		}
	}

	if err != nil {
		return Instruction{}, fmt.Errorf("decode %s at offset %d: %w", op, offset, err)
	}

	insn.Kind = kindOf(insn.Opcode)

	return insn, nil
}

func decodeWide(r *reader, offset int) (Instruction, error) {
	raw, err := r.u1()
	if err != nil {
		return Instruction{}, fmt.Errorf("decode wide at offset %d: %w", offset, err)
	}

	inner := Opcode(raw)
	insn := Instruction{Offset: offset, Opcode: inner}

	slot, err := r.u2()
	if err != nil {
		return Instruction{}, fmt.Errorf("decode wide %s at offset %d: %w", inner, offset, err)
	}

	insn.Operand = int(slot)

	switch {
	case inner == Iinc:
		err = r.skip(sizeU2)
		if err != nil {
			return Instruction{}, fmt.Errorf("decode wide iinc at offset %d: %w", offset, err)
		}
	case kindOf(inner) == KindVarInsn:
	default:
		return Instruction{}, fmt.Errorf("%w: wide %s at offset %d", ErrUnknownOpcode, inner, offset)
	}

	insn.Kind = kindOf(inner)

	return insn, nil
}

// switchPadding is the number of pad bytes after a switch opcode at offset.
func switchPadding(offset int) int {
	return (switchAlignment - (offset+1)%switchAlignment) % switchAlignment
}

func skipTableSwitch(r *reader, offset int) error {
	err := r.skip(switchPadding(offset) + sizeU4)
	if err != nil {
		return err
	}

	low, err := r.s4()
	if err != nil {
		return err
	}

	high, err := r.s4()
	if err != nil {
		return err
	}

	if high < low {
		return fmt.Errorf("%w: tableswitch high %d < low %d", ErrBadCode, high, low)
	}

	return r.skip((int(high) - int(low) + 1) * sizeU4)
}

func skipLookupSwitch(r *reader, offset int) error {
	err := r.skip(switchPadding(offset) + sizeU4)
	if err != nil {
		return err
	}

	pairs, err := r.s4()
	if err != nil {
		return err
	}

	if pairs < 0 {
		return fmt.Errorf("%w: lookupswitch with %d pairs", ErrBadCode, pairs)
	}

	return r.skip(int(pairs) * (sizeU4 + sizeU4))
}
