package classfile

import "strconv"

// Opcode is a JVM instruction opcode.
type Opcode uint8

// Opcodes referenced by the decoder and its callers. The full mnemonic table
// lives in opcodeNames.
const (
	Nop           Opcode = 0
	AconstNull    Opcode = 1
	Iconst0       Opcode = 3
	Iconst1       Opcode = 4
	Bipush        Opcode = 16
	Sipush        Opcode = 17
	Ldc           Opcode = 18
	LdcW          Opcode = 19
	Ldc2W         Opcode = 20
	Iload         Opcode = 21
	Lload         Opcode = 22
	Fload         Opcode = 23
	Dload         Opcode = 24
	Aload         Opcode = 25
	Iload0        Opcode = 26
	Aload0        Opcode = 42
	Aload1        Opcode = 43
	Aload3        Opcode = 45
	Iaload        Opcode = 46
	Saload        Opcode = 53
	Istore        Opcode = 54
	Lstore        Opcode = 55
	Fstore        Opcode = 56
	Dstore        Opcode = 57
	Astore        Opcode = 58
	Istore0       Opcode = 59
	Astore1       Opcode = 76
	Astore3       Opcode = 78
	Iastore       Opcode = 79
	Pop           Opcode = 87
	Dup           Opcode = 89
	Iadd          Opcode = 96
	Iinc          Opcode = 132
	Ifeq          Opcode = 153
	IfIcmpeq      Opcode = 159
	IfIcmpne      Opcode = 160
	IfIcmplt      Opcode = 161
	IfIcmpge      Opcode = 162
	IfIcmpgt      Opcode = 163
	IfIcmple      Opcode = 164
	IfAcmpeq      Opcode = 165
	IfAcmpne      Opcode = 166
	Goto          Opcode = 167
	Jsr           Opcode = 168
	Ret           Opcode = 169
	Tableswitch   Opcode = 170
	Lookupswitch  Opcode = 171
	Ireturn       Opcode = 172
	Return        Opcode = 177
	Getstatic     Opcode = 178
	Getfield      Opcode = 180
	Putfield      Opcode = 181
	Invokevirtual Opcode = 182
	Invokespecial Opcode = 183
	Invokestatic  Opcode = 184
	Invokeiface   Opcode = 185
	Invokedynamic Opcode = 186
	New           Opcode = 187
	Newarray      Opcode = 188
	Anewarray     Opcode = 189
	Arraylength   Opcode = 190
	Athrow        Opcode = 191
	Checkcast     Opcode = 192
	Instanceof    Opcode = 193
	Monitorenter  Opcode = 194
	Monitorexit   Opcode = 195
	Wide          Opcode = 196
	Multianewarr  Opcode = 197
	Ifnull        Opcode = 198
	Ifnonnull     Opcode = 199
	GotoW         Opcode = 200
	JsrW          Opcode = 201
)

// opcodeNames maps every defined opcode to its mnemonic.
var opcodeNames = [...]string{
	"nop", "aconst_null", "iconst_m1", "iconst_0", "iconst_1", "iconst_2", "iconst_3", "iconst_4",
	"iconst_5", "lconst_0", "lconst_1", "fconst_0", "fconst_1", "fconst_2", "dconst_0", "dconst_1",
	"bipush", "sipush", "ldc", "ldc_w", "ldc2_w", "iload", "lload", "fload",
	"dload", "aload", "iload_0", "iload_1", "iload_2", "iload_3", "lload_0", "lload_1",
	"lload_2", "lload_3", "fload_0", "fload_1", "fload_2", "fload_3", "dload_0", "dload_1",
	"dload_2", "dload_3", "aload_0", "aload_1", "aload_2", "aload_3", "iaload", "laload",
	"faload", "daload", "aaload", "baload", "caload", "saload", "istore", "lstore",
	"fstore", "dstore", "astore", "istore_0", "istore_1", "istore_2", "istore_3", "lstore_0",
	"lstore_1", "lstore_2", "lstore_3", "fstore_0", "fstore_1", "fstore_2", "fstore_3", "dstore_0",
	"dstore_1", "dstore_2", "dstore_3", "astore_0", "astore_1", "astore_2", "astore_3", "iastore",
	"lastore", "fastore", "dastore", "aastore", "bastore", "castore", "sastore", "pop",
	"pop2", "dup", "dup_x1", "dup_x2", "dup2", "dup2_x1", "dup2_x2", "swap",
	"iadd", "ladd", "fadd", "dadd", "isub", "lsub", "fsub", "dsub",
	"imul", "lmul", "fmul", "dmul", "idiv", "ldiv", "fdiv", "ddiv",
	"irem", "lrem", "frem", "drem", "ineg", "lneg", "fneg", "dneg",
	"ishl", "lshl", "ishr", "lshr", "iushr", "lushr", "iand", "land",
	"ior", "lor", "ixor", "lxor", "iinc", "i2l", "i2f", "i2d",
	"l2i", "l2f", "l2d", "f2i", "f2l", "f2d", "d2i", "d2l",
	"d2f", "i2b", "i2c", "i2s", "lcmp", "fcmpl", "fcmpg", "dcmpl",
	"dcmpg", "ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle", "if_icmpeq",
	"if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt", "if_icmple", "if_acmpeq", "if_acmpne", "goto",
	"jsr", "ret", "tableswitch", "lookupswitch", "ireturn", "lreturn", "freturn", "dreturn",
	"areturn", "return", "getstatic", "putstatic", "getfield", "putfield", "invokevirtual", "invokespecial",
	"invokestatic", "invokeinterface", "invokedynamic", "new", "newarray", "anewarray", "arraylength", "athrow",
	"checkcast", "instanceof", "monitorenter", "monitorexit", "wide", "multianewarray", "ifnull", "ifnonnull",
	"goto_w", "jsr_w",
}

// Defined reports whether op is a standard opcode (0..201).
func (op Opcode) Defined() bool {
	return int(op) < len(opcodeNames)
}

// String returns the opcode mnemonic, or "opcode(N)" for reserved values.
func (op Opcode) String() string {
	if op.Defined() {
		return opcodeNames[op]
	}

	return "opcode(" + strconv.Itoa(int(op)) + ")"
}

// Kind is the operand shape of a decoded instruction. The shapes follow the
// callbacks a visitor-style bytecode reader exposes, one per kind.
type Kind uint8

// Instruction kinds.
const (
	KindInsn Kind = iota
	KindIntInsn
	KindVarInsn
	KindTypeInsn
	KindFieldInsn
	KindMethodInsn
	KindInvokeDynamicInsn
	KindJumpInsn
	KindLdcInsn
	KindIincInsn
	KindTableSwitchInsn
	KindLookupSwitchInsn
	KindMultiANewArrayInsn
)

var kindNames = [...]string{
	KindInsn:               "insn",
	KindIntInsn:            "int",
	KindVarInsn:            "var",
	KindTypeInsn:           "type",
	KindFieldInsn:          "field",
	KindMethodInsn:         "method",
	KindInvokeDynamicInsn:  "invokedynamic",
	KindJumpInsn:           "jump",
	KindLdcInsn:            "ldc",
	KindIincInsn:           "iinc",
	KindTableSwitchInsn:    "tableswitch",
	KindLookupSwitchInsn:   "lookupswitch",
	KindMultiANewArrayInsn: "multianewarray",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// shortVarBase returns the base load/store opcode and slot for the compact
// xload_n / xstore_n forms.
func shortVarBase(op Opcode) (Opcode, int, bool) {
	const slots = 4

	switch {
	case op >= Iload0 && op <= Aload3:
		delta := int(op - Iload0)

		return Iload + Opcode(delta/slots), delta % slots, true
	case op >= Istore0 && op <= Astore3:
		delta := int(op - Istore0)

		return Istore + Opcode(delta/slots), delta % slots, true
	default:
		return 0, 0, false
	}
}

// kindOf classifies a normalized opcode into its operand shape.
//
//nolint:cyclop,gocyclo // flat opcode table.
func kindOf(op Opcode) Kind {
	switch {
	case op == Bipush || op == Sipush || op == Newarray:
		return KindIntInsn
	case op == Ldc:
		return KindLdcInsn
	case op >= Iload && op <= Aload, op >= Istore && op <= Astore, op == Ret:
		return KindVarInsn
	case op == Iinc:
		return KindIincInsn
	case op >= Ifeq && op <= Jsr, op == Ifnull, op == Ifnonnull:
		return KindJumpInsn
	case op == Tableswitch:
		return KindTableSwitchInsn
	case op == Lookupswitch:
		return KindLookupSwitchInsn
	case op >= Getstatic && op <= Putfield:
		return KindFieldInsn
	case op >= Invokevirtual && op <= Invokeiface:
		return KindMethodInsn
	case op == Invokedynamic:
		return KindInvokeDynamicInsn
	case op == New || op == Anewarray || op == Checkcast || op == Instanceof:
		return KindTypeInsn
	case op == Multianewarr:
		return KindMultiANewArrayInsn
	default:
		return KindInsn
	}
}
