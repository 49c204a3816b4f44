package classfile

import "strings"

// AccessFlags is the access_flags bit set of a class, field or method.
type AccessFlags uint16

// Access flag bits. Several bits are shared between class, field and method
// contexts with different meanings; the names here use the method meaning.
const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSynchronized AccessFlags = 0x0020
	AccBridge       AccessFlags = 0x0040
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccMandated     AccessFlags = 0x8000
)

var methodFlagNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccBridge, "bridge"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccAbstract, "abstract"},
	{AccStrict, "strict"},
	{AccSynthetic, "synthetic"},
}

// Has reports whether every bit of flag is set.
func (a AccessFlags) Has(flag AccessFlags) bool {
	return a&flag == flag
}

// Synchronized reports whether ACC_SYNCHRONIZED is set.
func (a AccessFlags) Synchronized() bool {
	return a.Has(AccSynchronized)
}

// MethodString renders the flags as method modifiers in declaration order.
func (a AccessFlags) MethodString() string {
	names := make([]string, 0, len(methodFlagNames))

	for _, f := range methodFlagNames {
		if a.Has(f.flag) {
			names = append(names, f.name)
		}
	}

	return strings.Join(names, " ")
}
