/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"strings"
)

// A SymbolTable translates between a symbol's text and the integer ID that
// stands in for it in binary Ion.
type SymbolTable interface {
	// Imports returns the symbol tables this table imports.
	Imports() []SharedSymbolTable
	// Symbols returns the symbols this symbol table defines.
	Symbols() []string
	// MaxID returns the maximum ID this symbol table defines.
	MaxID() uint64
	// Find finds the SymbolToken by its name.
	Find(symbol string) *SymbolToken
	// FindByName finds the ID of a symbol by its name.
	FindByName(symbol string) (uint64, bool)
	// FindByID finds the name of a symbol given its ID.
	FindByID(id uint64) (string, bool)
	// WriteTo serializes the symbol table to an ion.Writer.
	WriteTo(w Writer) error
	// String returns an ion text representation of the symbol table.
	String() string
}

// A SharedSymbolTable is named, versioned, and distributed out-of-band so
// that a LocalSymbolTable can reference it instead of repeating its
// symbols inline.
type SharedSymbolTable interface {
	SymbolTable

	// Name returns the name of this shared symbol table.
	Name() string
	// Version returns the version of this shared symbol table.
	Version() int
	// Adjust returns a new shared symbol table limited or extended to the given max ID.
	Adjust(maxID uint64) SharedSymbolTable
}

// sst is an ordinary, fully-known shared symbol table: a name, a version,
// and the symbol list that goes with them.
type sst struct {
	name    string
	version int
	symbols []string
	index   map[string]uint64
	maxID   uint64
}

var _ SharedSymbolTable = &sst{}

// NewSharedSymbolTable creates a new shared symbol table.
func NewSharedSymbolTable(name string, version int, symbols []string) SharedSymbolTable {
	syms := append([]string(nil), symbols...)
	return &sst{
		name:    name,
		version: version,
		symbols: syms,
		index:   buildIndex(syms, 1),
		maxID:   uint64(len(syms)),
	}
}

func (s *sst) Name() string               { return s.name }
func (s *sst) Version() int               { return s.version }
func (s *sst) Imports() []SharedSymbolTable { return nil }

func (s *sst) Symbols() []string {
	syms := make([]string, s.maxID)
	copy(syms, s.symbols)
	return syms
}

func (s *sst) MaxID() uint64 {
	return s.maxID
}

// Adjust returns a copy of s truncated or widened to maxID. Shrinking
// requires a fresh index (symbols past maxID must no longer resolve);
// growing past len(s.symbols) just changes the reported maxID, since the
// extra IDs name nothing the table defines.
func (s *sst) Adjust(maxID uint64) SharedSymbolTable {
	if maxID == s.maxID {
		return s
	}
	if maxID > uint64(len(s.symbols)) {
		return &sst{name: s.name, version: s.version, symbols: s.symbols, index: s.index, maxID: maxID}
	}
	symbols := s.symbols[:maxID]
	return &sst{name: s.name, version: s.version, symbols: symbols, index: buildIndex(symbols, 1), maxID: maxID}
}

func (s *sst) Find(sym string) *SymbolToken {
	id, ok := s.FindByName(sym)
	if !ok {
		return nil
	}
	text, ok := s.FindByID(id)
	if !ok {
		return nil
	}
	return &SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

func (s *sst) FindByName(sym string) (uint64, bool) {
	id, ok := s.index[sym]
	return id, ok
}

func (s *sst) FindByID(id uint64) (string, bool) {
	if id <= 0 || id > uint64(len(s.symbols)) {
		return "", false
	}
	return s.symbols[id-1], true
}

func (s *sst) WriteTo(w Writer) error {
	sharedTableSym := SymbolToken{Text: strPtr("$ion_shared_symbol_table"), LocalSID: 9}
	if err := w.Annotation(sharedTableSym); err != nil {
		return err
	}
	if err := w.BeginStruct(); err != nil {
		return err
	}

	if err := writeField(w, s, "name", func() error { return w.WriteString(s.name) }); err != nil {
		return err
	}
	if err := writeField(w, s, "version", func() error { return w.WriteInt(int64(s.version)) }); err != nil {
		return err
	}
	if err := writeField(w, s, "symbols", func() error { return writeStringList(w, s.symbols) }); err != nil {
		return err
	}

	return w.EndStruct()
}

func (s *sst) String() string {
	return symtabToText(s)
}

// writeField writes fieldName (resolved against tab, so it can use a
// shared-table-relative symbol ID rather than always spelling it out) and
// then calls write to emit the field's value.
func writeField(w Writer, tab SymbolTable, fieldName string, write func() error) error {
	st, err := NewSymbolToken(tab, fieldName)
	if err != nil {
		return err
	}
	if err := w.FieldName(st); err != nil {
		return err
	}
	return write()
}

func writeStringList(w Writer, values []string) error {
	if err := w.BeginList(); err != nil {
		return err
	}
	for _, v := range values {
		if err := w.WriteString(v); err != nil {
			return err
		}
	}
	return w.EndList()
}

func symtabToText(t SymbolTable) string {
	buf := strings.Builder{}
	w := NewTextWriter(&buf)
	_ = t.WriteTo(w)
	return buf.String()
}

func strPtr(s string) *string { return &s }

// V1SystemSymbolTable is the (implied) system symbol table for Ion v1.0.
var V1SystemSymbolTable = NewSharedSymbolTable("$ion", 1, []string{
	"$ion",
	"$ion_1_0",
	"$ion_symbol_table",
	"name",
	"version",
	"imports",
	"symbols",
	"max_id",
	"$ion_shared_symbol_table",
})

// bogusSST stands in for a shared symbol table an LST imports but that
// isn't in the local catalog. It still reserves the import's ID range so
// symbols from other imports land on the IDs the writer intended, even
// though none of the bogus table's own symbols can be resolved.
type bogusSST struct {
	name    string
	version int
	maxID   uint64
}

var _ SharedSymbolTable = &bogusSST{}

func (s *bogusSST) Name() string                 { return s.name }
func (s *bogusSST) Version() int                 { return s.version }
func (s *bogusSST) Imports() []SharedSymbolTable { return nil }
func (s *bogusSST) Symbols() []string            { return nil }
func (s *bogusSST) MaxID() uint64                { return s.maxID }

func (s *bogusSST) Adjust(maxID uint64) SharedSymbolTable {
	return &bogusSST{name: s.name, version: s.version, maxID: maxID}
}

func (s *bogusSST) Find(sym string) *SymbolToken            { return nil }
func (s *bogusSST) FindByName(sym string) (uint64, bool)     { return 0, false }
func (s *bogusSST) FindByID(id uint64) (string, bool)        { return "", false }

func (s *bogusSST) WriteTo(w Writer) error {
	return &UsageError{"SharedSymbolTable.WriteTo", "bogus symbol table should never be written"}
}

func (s *bogusSST) String() string {
	buf := strings.Builder{}
	w := NewTextWriter(&buf)

	sharedTableSym := SymbolToken{Text: strPtr("$ion_shared_symbol_table"), LocalSID: 9}
	bogusSym := SymbolToken{Text: strPtr("bogus"), LocalSID: SymbolIDUnknown}
	_ = w.Annotations(sharedTableSym, bogusSym)
	_ = w.BeginStruct()

	_ = writeField(w, s, "name", func() error { return w.WriteString(s.name) })
	_ = writeField(w, s, "version", func() error { return w.WriteInt(int64(s.version)) })
	_ = writeField(w, s, "max_id", func() error { return w.WriteUint(s.maxID) })

	_ = w.EndStruct()
	return buf.String()
}

// lst is a local symbol table: the imports and additional symbols declared
// inline by a binary Ion stream's $ion_symbol_table struct. Symbol IDs are
// assigned import-by-import (each import occupying the range
// offsets[i]+1..offsets[i]+imp.MaxID()) followed by the locally-declared
// symbols.
type lst struct {
	imports     []SharedSymbolTable
	offsets     []uint64
	maxImportID uint64

	symbols []string
	index   map[string]uint64
}

var _ SymbolTable = &lst{}

// NewLocalSymbolTable creates a new local symbol table.
func NewLocalSymbolTable(imports []SharedSymbolTable, symbols []string) SymbolTable {
	imps, offsets, maxID := processImports(imports)
	syms := append([]string(nil), symbols...)

	return &lst{
		imports:     imps,
		offsets:     offsets,
		maxImportID: maxID,
		symbols:     syms,
		index:       buildIndex(syms, maxID+1),
	}
}

func (t *lst) Imports() []SharedSymbolTable {
	return append([]SharedSymbolTable(nil), t.imports...)
}

func (t *lst) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

func (t *lst) MaxID() uint64 {
	return t.maxImportID + uint64(len(t.symbols))
}

func (t *lst) Find(sym string) *SymbolToken {
	for _, imp := range t.imports {
		if st := imp.Find(sym); st != nil {
			return st
		}
	}
	if _, ok := t.index[sym]; ok {
		return &SymbolToken{Text: &sym, LocalSID: SymbolIDUnknown}
	}
	return nil
}

func (t *lst) FindByName(sym string) (uint64, bool) {
	for i, imp := range t.imports {
		if id, ok := imp.FindByName(sym); ok {
			return t.offsets[i] + id, true
		}
	}
	if id, ok := t.index[sym]; ok {
		return id, true
	}
	return 0, false
}

func (t *lst) FindByID(id uint64) (string, bool) {
	if id <= 0 {
		return "", false
	}
	if id <= t.maxImportID {
		return t.findByIDInImports(id)
	}
	if idx := id - t.maxImportID - 1; idx < uint64(len(t.symbols)) {
		return t.symbols[idx], true
	}
	return "", false
}

// findByIDInImports locates which import's ID range id falls into and
// delegates to that import, translating id to be relative to it.
func (t *lst) findByIDInImports(id uint64) (string, bool) {
	i := 1
	off := uint64(0)
	for ; i < len(t.imports); i++ {
		if id <= t.offsets[i] {
			break
		}
		off = t.offsets[i]
	}
	return t.imports[i-1].FindByID(id - off)
}

func (t *lst) WriteTo(w Writer) error {
	if len(t.imports) == 1 && len(t.symbols) == 0 {
		// Only the implicit system import, nothing new to declare.
		return nil
	}

	symTableSym := SymbolToken{Text: strPtr("$ion_symbol_table"), LocalSID: 3}
	if err := w.Annotation(symTableSym); err != nil {
		return err
	}
	if err := w.BeginStruct(); err != nil {
		return err
	}

	if len(t.imports) > 1 {
		if err := writeField(w, t, "imports", func() error { return t.writeImportsList(w) }); err != nil {
			return err
		}
	}
	if len(t.symbols) > 0 {
		if err := writeField(w, t, "symbols", func() error { return writeStringList(w, t.symbols) }); err != nil {
			return err
		}
	}

	return w.EndStruct()
}

// writeImportsList writes every import after the implicit leading system
// table as an {name, version, max_id} struct.
func (t *lst) writeImportsList(w Writer) error {
	if err := w.BeginList(); err != nil {
		return err
	}
	for _, imp := range t.imports[1:] {
		if err := w.BeginStruct(); err != nil {
			return err
		}
		if err := writeField(w, t, "name", func() error { return w.WriteString(imp.Name()) }); err != nil {
			return err
		}
		if err := writeField(w, t, "version", func() error { return w.WriteInt(int64(imp.Version())) }); err != nil {
			return err
		}
		if err := writeField(w, t, "max_id", func() error { return w.WriteUint(imp.MaxID()) }); err != nil {
			return err
		}
		if err := w.EndStruct(); err != nil {
			return err
		}
	}
	return w.EndList()
}

func (t *lst) String() string {
	return symtabToText(t)
}

// A SymbolTableBuilder helps you iteratively build a local symbol table.
type SymbolTableBuilder interface {
	SymbolTable

	// Add adds a symbol to this symbol table.
	Add(symbol string) (uint64, bool)
	// Build creates an immutable local symbol table.
	Build() SymbolTable
}

type symbolTableBuilder struct {
	lst
}

var _ SymbolTableBuilder = &symbolTableBuilder{}

// NewSymbolTableBuilder creates a new symbol table builder with the given imports.
func NewSymbolTableBuilder(imports ...SharedSymbolTable) SymbolTableBuilder {
	imps, offsets, maxID := processImports(imports)
	return &symbolTableBuilder{lst{
		imports:     imps,
		offsets:     offsets,
		maxImportID: maxID,
		index:       make(map[string]uint64),
	}}
}

// Add assigns sym the next available local ID, unless it's already
// present (imported or already added), in which case it reports the
// existing ID and false.
func (b *symbolTableBuilder) Add(sym string) (uint64, bool) {
	if id, ok := b.FindByName(sym); ok {
		return id, false
	}

	b.symbols = append(b.symbols, sym)
	id := b.maxImportID + uint64(len(b.symbols))
	b.index[sym] = id
	return id, true
}

func (b *symbolTableBuilder) Build() SymbolTable {
	symbols := append([]string(nil), b.symbols...)
	index := make(map[string]uint64, len(b.index))
	for sym, id := range b.index {
		index[sym] = id
	}

	return &lst{
		imports:     b.imports,
		offsets:     b.offsets,
		maxImportID: b.maxImportID,
		symbols:     symbols,
		index:       index,
	}
}

// processImports normalizes an import list so that it always starts with
// the v1.0 system symbol table, then computes each entry's ID offset and
// the combined max ID across all of them.
func processImports(imports []SharedSymbolTable) (imps []SharedSymbolTable, offsets []uint64, maxID uint64) {
	if len(imports) > 0 && imports[0].Name() == "$ion" {
		imps = append([]SharedSymbolTable(nil), imports...)
	} else {
		imps = make([]SharedSymbolTable, len(imports)+1)
		imps[0] = V1SystemSymbolTable
		copy(imps[1:], imports)
	}

	offsets = make([]uint64, len(imps))
	for i, imp := range imps {
		offsets[i] = maxID
		maxID += imp.MaxID()
	}

	return imps, offsets, maxID
}

// buildIndex builds a name-to-ID index for symbols, whose IDs start at
// offset. Earlier duplicate names win, matching how Ion resolves a symbol
// that's declared more than once.
func buildIndex(symbols []string, offset uint64) map[string]uint64 {
	index := make(map[string]uint64, len(symbols))
	for i, sym := range symbols {
		if sym == "" {
			continue
		}
		if _, ok := index[sym]; !ok {
			index[sym] = offset + uint64(i)
		}
	}
	return index
}
