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

// SymbolIDUnknown is the LocalSID of a SymbolToken whose symbol ID has not
// been resolved against any symbol table.
const SymbolIDUnknown int64 = -1

// A SymbolToken holds both the text and the symbol ID of an Ion symbol.
// Either half may be unknown: Text is nil when a value came off the wire as
// a bare symbol ID that the active symbol table could not resolve to text,
// and LocalSID is SymbolIDUnknown when a token was built directly from text
// with no symbol table to assign it an ID from. The one token where both
// are meaningfully absent is symbol zero ($0): Text == nil, LocalSID == 0.
type SymbolToken struct {
	Text     *string
	LocalSID int64
}

// NewSymbolTokenFromString builds a SymbolToken from text alone, leaving its
// symbol ID unknown.
func NewSymbolTokenFromString(text string) SymbolToken {
	return SymbolToken{Text: &text, LocalSID: SymbolIDUnknown}
}

// NewSimpleSymbolToken is an alias of NewSymbolTokenFromString kept for call
// sites that only ever deal in text, such as annotation literals.
func NewSimpleSymbolToken(text string) SymbolToken {
	return NewSymbolTokenFromString(text)
}

// NewSymbolToken resolves text against table, returning the table's token
// for it if the table defines that text, or a text-only token otherwise.
// Either way the token carries only the text; its LocalSID is
// SymbolIDUnknown. It never fails: an unresolvable symbol is still valid
// Ion, it just can't be interned yet.
func NewSymbolToken(table SymbolTable, text string) (SymbolToken, error) {
	if table != nil {
		if st := table.Find(text); st != nil {
			return *st, nil
		}
	}
	return NewSymbolTokenFromString(text), nil
}

// newSymbolToken is what the text reader uses for unquoted symbols: a $N
// symbol identifier is resolved by ID through NewSymbolTokenBySID, and any
// other text gets NewSymbolToken's resolve-or-mint-a-text-token behavior.
func newSymbolToken(table SymbolTable, text string) (SymbolToken, error) {
	if sid, ok := symbolIdentifier(text); ok {
		return NewSymbolTokenBySID(table, int64(sid))
	}
	return NewSymbolToken(table, text)
}

// newSimpleSymbolToken is the unexported name tests use for
// NewSimpleSymbolToken.
func newSimpleSymbolToken(text string) SymbolToken {
	return NewSimpleSymbolToken(text)
}

// NewSymbolTokenBySID resolves a symbol ID against table. Symbol zero is
// always valid and always textless. An ID within the table's range whose
// text is unknown (such as a slot of an import that was not found) yields a
// textless token carrying that ID. Any ID beyond the table's range is an
// UnknownSymbolError: the stream referenced a symbol this reader has no way
// to resolve.
func NewSymbolTokenBySID(table SymbolTable, sid int64) (SymbolToken, error) {
	if sid == 0 {
		return SymbolToken{Text: nil, LocalSID: 0}, nil
	}
	if sid > 0 && table != nil {
		if text, ok := table.FindByID(uint64(sid)); ok {
			return SymbolToken{Text: &text, LocalSID: sid}, nil
		}
		if uint64(sid) <= table.MaxID() {
			return SymbolToken{Text: nil, LocalSID: sid}, nil
		}
	}
	return SymbolToken{}, &UnknownSymbolError{SID: sid}
}

// Equal reports whether two symbol tokens refer to the same symbol. Two
// textless tokens are equal only if their IDs match; otherwise text is the
// authority and the ID is informational.
func (st *SymbolToken) Equal(o *SymbolToken) bool {
	if st.Text == nil || o.Text == nil {
		return st.Text == nil && o.Text == nil && st.LocalSID == o.LocalSID
	}
	return *st.Text == *o.Text
}
