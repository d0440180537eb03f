package lexer

import (
	"testing"

	"psfmt/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	return source.NewVirtualFile("test.ps1", []byte(content))
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF state at end")
	}
}

func TestPeekHelpers(t *testing.T) {
	cursor := NewCursor(createFile("xy"))
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'x' || b1 != 'y' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	if cursor.PeekAt(1) != 'y' || cursor.PeekAt(2) != 0 {
		t.Fatal("PeekAt out of expected range")
	}
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Fatal("Peek2 must fail on the last byte")
	}
}

func TestMarkResetAndSpan(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	m := cursor.Mark()
	cursor.Advance(3)
	sp := cursor.SpanFrom(m)
	if sp.Start != 0 || sp.End != 3 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Advance(100)
	if cursor.Off != 5 {
		t.Fatalf("Advance must clamp to the end, got %d", cursor.Off)
	}
	cursor.Reset(m)
	if !cursor.Eat('h') || cursor.Eat('x') {
		t.Fatal("Eat mismatch after Reset")
	}
}
