package ion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// symtabAppend renders a "$ion_symbol_table::{ imports: $ion_symbol_table,
// symbols: [...] }" struct that folds the reader's current table into a
// new one with the given additional symbol names.
func symtabAppend(symbols ...string) string {
	var b strings.Builder
	b.WriteString("$ion_symbol_table::{ imports: $ion_symbol_table, symbols:[ ")
	for i, s := range symbols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + s + `"`)
	}
	b.WriteString(" ] }\n")
	return b.String()
}

func symtabDeclare(symbols ...string) string {
	var b strings.Builder
	b.WriteString("$ion_symbol_table::{ symbols:[ ")
	for i, s := range symbols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + s + `"`)
	}
	b.WriteString(" ] }\n")
	return b.String()
}

func readSymbolTable(t *testing.T, text string) SymbolTable {
	t.Helper()
	r := NewReaderString(text)
	r.Next()
	return r.SymbolTable()
}

func TestLocalSymbolTableAppend(t *testing.T) {
	text := symtabDeclare("s1", "s2") + symtabAppend("s3", "s4", "s5") + "null"

	st := readSymbolTable(t, text)
	base := getSystemMaxID(st)

	checkSymbol(t, "s1", base+1, st)
	checkSymbol(t, "s2", base+2, st)
	checkSymbol(t, "s3", base+3, st)
	checkSymbol(t, "s4", base+4, st)
	checkSymbol(t, "s5", base+5, st)
	checkUnknownSymbolText(t, "unknown", st)
	checkUnknownSymbolID(t, 33, st)
}

func TestLocalSymbolTableMultiAppend(t *testing.T) {
	text := symtabDeclare("s1", "s2") +
		symtabAppend("s3") +
		symtabAppend("s4", "s5") +
		symtabAppend("s6") +
		"null"

	st := readSymbolTable(t, text)
	base := getSystemMaxID(st)

	checkSymbol(t, "s1", base+1, st)
	checkSymbol(t, "s2", base+2, st)
	checkSymbol(t, "s3", base+3, st)
	checkSymbol(t, "s4", base+4, st)
	checkSymbol(t, "s5", base+5, st)
	checkSymbol(t, "s6", base+6, st)
	checkUnknownSymbolText(t, "unknown", st)
	checkUnknownSymbolID(t, 33, st)
}

func TestLocalSymbolTableAppendEmptyList(t *testing.T) {
	original := symtabDeclare("s1")

	ost := readSymbolTable(t, original+"null")
	originalSymbol := ost.Find("s1")

	appended := original + symtabAppend() + "null"
	ast := readSymbolTable(t, appended)
	appendedSymbol := ast.Find("s1")

	assert.Equal(t, originalSymbol.LocalSID, appendedSymbol.LocalSID)
}

func TestLocalSymbolTableAppendNonUnique(t *testing.T) {
	text := symtabDeclare("foo") + "$10\n" + symtabAppend("foo", "bar") + "$11\n$12\n"

	r := NewReaderString(text)
	r.Next()
	r.Next()
	st := r.SymbolTable()
	base := getSystemMaxID(st)

	checkSymbol(t, "foo", base+1, st)
	checkSymbol(t, "foo", base+2, st)
	checkSymbol(t, "bar", base+3, st)
}

func TestLocalSymbolTableAppendOutOfBounds(t *testing.T) {
	text := symtabDeclare("foo") + "$10\n" + symtabAppend("foo") + "$11\n$12\n"

	r := NewReaderString(text)
	r.Next()
	r.Next()
	st := r.SymbolTable()
	base := getSystemMaxID(st)

	checkSymbol(t, "foo", base+1, st)
	checkSymbol(t, "foo", base+2, st)
	checkUnknownSymbolID(t, base+3, st)
}

func getSystemMaxID(st SymbolTable) uint64 {
	return st.Imports()[0].MaxID()
}

func checkSymbol(t *testing.T, want string, sid uint64, st SymbolTable) {
	t.Helper()
	val, ok := st.FindByID(sid)
	assert.True(t, ok, "expected a symbol at SID %v", sid)
	assert.Equal(t, want, val)
}

func checkUnknownSymbolText(t *testing.T, name string, st SymbolTable) {
	t.Helper()
	assert.Nil(t, st.Find(name))
	_, ok := st.FindByName(name)
	assert.False(t, ok)
}

func checkUnknownSymbolID(t *testing.T, sid uint64, st SymbolTable) {
	t.Helper()
	_, ok := st.FindByID(sid)
	assert.False(t, ok)
}
