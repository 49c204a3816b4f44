// Package lockcov estimates how much of a compiled class executes under a
// monitor lock.
//
// A class is adapted into a ClassUnit whose methods carry ordered
// InstructionEvent sequences. ClassifyMethod walks one sequence with a fresh
// LockState, Aggregate folds the per-method counts, and Percent/FormatLine
// turn the totals into the report line.
package lockcov

import "github.com/Sumatoshi-tech/lockcov/pkg/classfile"

// Category is the operand shape an instruction event was reported with.
type Category uint8

// Event categories.
const (
	CategoryNoOperand Category = iota
	CategoryIntOperand
	CategoryVar
	CategoryTypeRef
	CategoryFieldRef
	CategoryMethodRef
	CategoryJump
	CategoryDynamic
)

var categoryNames = [...]string{
	CategoryNoOperand:  "no-operand",
	CategoryIntOperand: "int-operand",
	CategoryVar:        "var",
	CategoryTypeRef:    "type-ref",
	CategoryFieldRef:   "field-ref",
	CategoryMethodRef:  "method-ref",
	CategoryJump:       "jump",
	CategoryDynamic:    "dynamic",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}

	return "unknown"
}

// OpKind is the opcode identity the classifier inspects.
type OpKind uint8

// Opcode identities.
const (
	OpOther OpKind = iota
	OpMonitorEnter
	OpMonitorExit
	OpCompareJump
)

const (
	opMonitorEnter = int(classfile.Monitorenter)
	opMonitorExit  = int(classfile.Monitorexit)

	// Integer comparison branches if_icmpne..if_acmpeq.
	opCompareFirst = int(classfile.IfIcmpne)
	opCompareLast  = int(classfile.IfAcmpeq)
)

// InstructionEvent is one reported instruction.
type InstructionEvent struct {
	Category Category
	Opcode   int
	Kind     OpKind
}

// NewEvent builds an event and resolves its OpKind.
func NewEvent(category Category, opcode int) InstructionEvent {
	return InstructionEvent{Category: category, Opcode: opcode, Kind: kindFor(category, opcode)}
}

func kindFor(category Category, opcode int) OpKind {
	switch category {
	case CategoryNoOperand:
		switch opcode {
		case opMonitorEnter:
			return OpMonitorEnter
		case opMonitorExit:
			return OpMonitorExit
		}
	case CategoryJump:
		if opcode >= opCompareFirst && opcode <= opCompareLast {
			return OpCompareJump
		}
	default:
	}

	return OpOther
}

// FieldDecl is a declared field. Fields are tallied but never classified.
type FieldDecl struct {
	Name       string
	Descriptor string
	Access     uint16
}

// MethodUnit is one method and its ordered instruction events.
type MethodUnit struct {
	Name         string
	Descriptor   string
	Synchronized bool
	Events       []InstructionEvent
}

// ClassUnit is the subject of one analysis run.
type ClassUnit struct {
	Name    string
	Fields  []FieldDecl
	Methods []MethodUnit
}

// categoryOf maps a decoded instruction shape onto an event category. Shapes
// without a category (iinc, ldc, switches, multianewarray) are not reported
// as events.
func categoryOf(kind classfile.Kind) (Category, bool) {
	switch kind {
	case classfile.KindInsn:
		return CategoryNoOperand, true
	case classfile.KindIntInsn:
		return CategoryIntOperand, true
	case classfile.KindVarInsn:
		return CategoryVar, true
	case classfile.KindTypeInsn:
		return CategoryTypeRef, true
	case classfile.KindFieldInsn:
		return CategoryFieldRef, true
	case classfile.KindMethodInsn:
		return CategoryMethodRef, true
	case classfile.KindJumpInsn:
		return CategoryJump, true
	case classfile.KindInvokeDynamicInsn:
		return CategoryDynamic, true
	default:
		return 0, false
	}
}

// FromClassFile adapts a decoded class into a ClassUnit.
func FromClassFile(cf *classfile.ClassFile) ClassUnit {
	unit := ClassUnit{
		Name:    cf.Name,
		Fields:  make([]FieldDecl, 0, len(cf.Fields)),
		Methods: make([]MethodUnit, 0, len(cf.Methods)),
	}

	for _, f := range cf.Fields {
		unit.Fields = append(unit.Fields, FieldDecl{Name: f.Name, Descriptor: f.Descriptor, Access: uint16(f.Access)})
	}

	for _, m := range cf.Methods {
		unit.Methods = append(unit.Methods, MethodUnit{
			Name:         m.Name,
			Descriptor:   m.Descriptor,
			Synchronized: m.Access.Synchronized(),
			Events:       eventsOf(m.Code),
		})
	}

	return unit
}

func eventsOf(code *classfile.Code) []InstructionEvent {
	if code == nil {
		return nil
	}

	events := make([]InstructionEvent, 0, len(code.Instructions))

	for _, insn := range code.Instructions {
		category, ok := categoryOf(insn.Kind)
		if !ok {
			continue
		}

		events = append(events, NewEvent(category, int(insn.Opcode)))
	}

	return events
}
