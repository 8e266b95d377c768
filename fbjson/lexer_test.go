// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package fbjson

import "testing"

func TestNewTextLexerStripsUTF8BOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"a":1}`)...)
	lex := NewTextLexer(src)
	tok, err := lex.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok.Kind != TokLBrace {
		t.Fatalf("got %v, want TokLBrace (BOM should have been stripped)", tok.Kind)
	}
}

func TestNewTextLexerPlainUTF8Unaffected(t *testing.T) {
	lex := NewTextLexer([]byte(`{"a":1}`))
	tok, err := lex.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok.Kind != TokLBrace {
		t.Fatalf("got %v, want TokLBrace", tok.Kind)
	}
}
