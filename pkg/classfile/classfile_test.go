package classfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/lockcov/pkg/classfile"
	cft "github.com/Sumatoshi-tech/lockcov/pkg/classfile/classfiletest"
)

const testClassName = "com/example/Counter"

func TestParse_ClassHeaderAndMembers(t *testing.T) {
	t.Parallel()

	data := cft.New(testClassName).
		LongConstant(42).
		Field(classfile.AccPrivate, "count", "I").
		Field(classfile.AccPrivate|classfile.AccFinal, "lock", "Ljava/lang/Object;").
		Method(classfile.AccPublic|classfile.AccSynchronized, "increment", "()V", cft.Code(
			cft.Op(classfile.Aload0),
			cft.Op(classfile.Return),
		)).
		AbstractMethod("reset", "()V").
		Bytes()

	cf, err := classfile.Parse(data)
	require.NoError(t, err)

	assert.Equal(t, testClassName, cf.Name)
	assert.Equal(t, "java/lang/Object", cf.SuperName)
	assert.Equal(t, 52, cf.MajorVersion)
	assert.Empty(t, cf.Interfaces)

	require.Len(t, cf.Fields, 2)
	assert.Equal(t, "count", cf.Fields[0].Name)
	assert.Equal(t, "Ljava/lang/Object;", cf.Fields[1].Descriptor)

	require.Len(t, cf.Methods, 2)
	assert.Equal(t, "increment", cf.Methods[0].Name)
	assert.True(t, cf.Methods[0].Access.Synchronized())
	require.NotNil(t, cf.Methods[0].Code)
	assert.Len(t, cf.Methods[0].Code.Instructions, 2)

	assert.Equal(t, "reset", cf.Methods[1].Name)
	assert.Nil(t, cf.Methods[1].Code)
	assert.False(t, cf.Methods[1].Access.Synchronized())

	assert.Equal(t, 2, cf.InstructionCount())
}

func TestParse_BadMagic(t *testing.T) {
	t.Parallel()

	_, err := classfile.Parse([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 52})
	require.ErrorIs(t, err, classfile.ErrBadMagic)
}

func TestParse_Truncated(t *testing.T) {
	t.Parallel()

	data := cft.New(testClassName).
		Method(classfile.AccPublic, "run", "()V", cft.Op(classfile.Return)).
		Bytes()

	for _, cut := range []int{0, 3, 9, len(data) / 2, len(data) - 3} {
		_, err := classfile.Parse(data[:cut])
		require.ErrorIs(t, err, classfile.ErrTruncated, "cut at %d", cut)
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	t.Parallel()

	data := cft.New(testClassName).Version(44).Bytes()

	_, err := classfile.Parse(data)
	require.ErrorIs(t, err, classfile.ErrUnsupportedVersion)
}

func TestParse_EmptyClass(t *testing.T) {
	t.Parallel()

	cf, err := classfile.Parse(cft.New("Empty").Bytes())
	require.NoError(t, err)

	assert.Empty(t, cf.Fields)
	assert.Empty(t, cf.Methods)
	assert.Zero(t, cf.InstructionCount())
}

func TestAccessFlags_MethodString(t *testing.T) {
	t.Parallel()

	flags := classfile.AccPublic | classfile.AccStatic | classfile.AccSynchronized

	assert.Equal(t, "public static synchronized", flags.MethodString())
	assert.True(t, flags.Has(classfile.AccStatic))
	assert.False(t, flags.Has(classfile.AccStatic|classfile.AccFinal))
	assert.Empty(t, classfile.AccessFlags(0).MethodString())
}
