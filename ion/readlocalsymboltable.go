package ion

import "fmt"

// readLocalSymbolTable reads a $ion_symbol_table struct (the reader is
// positioned on it, not yet stepped in) and builds the LocalSymbolTable it
// describes.
func readLocalSymbolTable(r Reader, cat Catalog) (SymbolTable, error) {
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var imps []SharedSymbolTable
	var syms []string
	haveImports, haveSymbols := false, false

	for r.Next() {
		fieldName, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if fieldName == nil || fieldName.Text == nil {
			return nil, fmt.Errorf("ion: field name is nil")
		}

		switch *fieldName.Text {
		case "imports":
			if haveImports {
				return nil, fmt.Errorf("ion: multiple imports fields found within a single local symbol table")
			}
			haveImports = true
			imps, err = readImports(r, cat)

		case "symbols":
			if haveSymbols {
				return nil, fmt.Errorf("ion: multiple symbol fields found within a single local symbol table")
			}
			haveSymbols = true
			syms, err = readSymbols(r)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}

	return NewLocalSymbolTable(imps, syms), nil
}

// readImports reads the "imports" field of a local symbol table: either
// the symbol $3 (re-importing the current symbol table's full contents),
// a list of import structs, or absent/null (no imports).
func readImports(r Reader, cat Catalog) ([]SharedSymbolTable, error) {
	if r.Type() == SymbolType {
		val, err := r.SymbolValue()
		if err != nil {
			return nil, err
		}
		if val.LocalSID == 3 {
			return importCurrentSymbolTable(r)
		}
	}

	if r.Type() != ListType || r.IsNull() {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var imps []SharedSymbolTable
	for r.Next() {
		imp, err := readImport(r, cat)
		if err != nil {
			return nil, err
		}
		if imp != nil {
			imps = append(imps, imp)
		}
	}

	err := r.StepOut()
	return imps, err
}

// importCurrentSymbolTable handles the special "imports: $ion_symbol_table"
// form, which folds the reader's existing symbol table into the new one's
// import list rather than naming an external shared table.
func importCurrentSymbolTable(r Reader) ([]SharedSymbolTable, error) {
	cur := r.SymbolTable()
	if cur == nil || cur == V1SystemSymbolTable {
		return nil, nil
	}
	lsst := NewSharedSymbolTable("", 0, cur.Symbols())
	return append(cur.Imports(), lsst), nil
}

// readImport reads one struct from an "imports" list, resolving it against
// the catalog when possible.
func readImport(r Reader, cat Catalog) (SharedSymbolTable, error) {
	if r.Type() != StructType || r.IsNull() {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	name := ""
	version := -1
	maxID := int64(-1)

	for r.Next() {
		fieldName, err := r.FieldName()
		if err != nil {
			return nil, err
		}
		if fieldName == nil || fieldName.Text == nil {
			return nil, fmt.Errorf("ion: field name is nil")
		}

		switch *fieldName.Text {
		case "name":
			if r.Type() == StringType {
				val, err := r.StringValue()
				if err != nil {
					return nil, err
				}
				name = *val
			}
		case "version":
			if r.Type() == IntType {
				val, err := r.IntValue()
				if err != nil {
					return nil, err
				}
				version = *val
			}
		case "max_id":
			if r.Type() == IntType {
				if r.IsNull() {
					return nil, fmt.Errorf("ion: max id is null")
				}
				i, err := r.Int64Value()
				if err != nil {
					return nil, err
				}
				maxID = *i
			}
		}
	}

	if err := r.StepOut(); err != nil {
		return nil, err
	}

	if name == "" || name == "$ion" {
		return nil, nil
	}
	if version < 1 {
		version = 1
	}

	return resolveImport(cat, name, version, maxID)
}

// resolveImport looks name/version up in the catalog and adjusts it (or
// synthesizes a placeholder) to the declared max_id, per the rules for
// shared-symbol-table imports whose exact version isn't locally available.
func resolveImport(cat Catalog, name string, version int, maxID int64) (SharedSymbolTable, error) {
	var imp SharedSymbolTable
	if cat != nil {
		imp = cat.FindExact(name, version)
		if imp == nil {
			imp = cat.FindLatest(name)
		}
	}

	if maxID < 0 {
		if imp == nil || version != imp.Version() {
			return nil, fmt.Errorf("ion: import of shared table %v/%v lacks a valid max_id, but an exact "+
				"match was not found in the catalog", name, version)
		}
		maxID = int64(imp.MaxID())
	}

	if imp == nil {
		return &bogusSST{name: name, version: version, maxID: uint64(maxID)}, nil
	}
	return imp.Adjust(uint64(maxID)), nil
}

// readSymbols reads the "symbols" field of a local symbol table: a list of
// strings (null/non-string entries become the empty symbol).
func readSymbols(r Reader) ([]string, error) {
	if r.Type() != ListType {
		return nil, nil
	}
	if err := r.StepIn(); err != nil {
		return nil, err
	}

	var syms []string
	for r.Next() {
		sym := ""
		if r.Type() == StringType {
			val, err := r.StringValue()
			if err != nil {
				return nil, err
			}
			if val != nil {
				sym = *val
			}
		}
		syms = append(syms, sym)
	}

	err := r.StepOut()
	return syms, err
}
