package pattern

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("48 8B 05 ?? ?? ?? ??  f3 ?")
	if err != nil {
		t.Fatal(err)
	}

	if sig.Len() != 9 {
		t.Fatalf("expected 9 tokens - got %d", sig.Len())
	}

	exp := "48 8b 05 ?? ?? ?? ?? f3 ??"
	if sig.String() != exp {
		t.Fatalf("expected %q - got %q", exp, sig.String())
	}
}

func TestParseSignature_Errors(t *testing.T) {
	for _, text := range []string{"", "   ", "4", "48 zz", "488b"} {
		_, err := ParseSignature(text)
		if err == nil {
			t.Fatalf("expected an error for %q", text)
		}
	}
}

func TestFind_FirstMatchWins(t *testing.T) {
	sig := ParseSignatureOrExit("aa ?? cc")

	data := []byte{0x00, 0xaa, 0x01, 0xcc, 0xaa, 0x02, 0xcc}

	offset, found := Find(sig, data)
	if !found {
		t.Fatal("expected a match")
	}

	if offset != 1 {
		t.Fatalf("expected offset 1 - got %d", offset)
	}

	all := FindAll(sig, data)
	if len(all) != 2 || all[0] != 1 || all[1] != 4 {
		t.Fatalf("expected matches at [1 4] - got %v", all)
	}
}

func TestFind_MatchAtEnd(t *testing.T) {
	sig := ParseSignatureOrExit("de ad")

	data := []byte{0x00, 0x00, 0x00, 0xde, 0xad}

	offset, found := Find(sig, data)
	if !found || offset != 3 {
		t.Fatalf("expected offset 3 - got %d (found: %t)", offset, found)
	}
}

func TestFind_NotFound(t *testing.T) {
	sig := ParseSignatureOrExit("48 8b 05 ?? ?? ?? ?? f3 0f 10 88 cc 02 00 00")

	data := bytes.Repeat([]byte{0x90}, 4096)

	_, found := Find(sig, data)
	if found {
		t.Fatal("expected no match")
	}

	if all := FindAll(sig, data); len(all) != 0 {
		t.Fatalf("expected no matches - got %v", all)
	}
}

func TestFind_SignatureLongerThanData(t *testing.T) {
	sig := ParseSignatureOrExit("?? ?? ?? ??")

	_, found := Find(sig, []byte{0x01, 0x02})
	if found {
		t.Fatal("expected no match")
	}
}

func TestFind_WildcardMatchesAnyByte(t *testing.T) {
	sig := ParseSignatureOrExit("AA ?? CC")

	for i := 0; i < 256; i++ {
		data := []byte{0xaa, byte(i), 0xcc}

		offset, found := Find(sig, data)
		if !found || offset != 0 {
			t.Fatalf("expected wildcard to match 0x%02x - got offset %d (found: %t)",
				i, offset, found)
		}
	}
}

func TestFind_EmbeddedInstruction(t *testing.T) {
	sig := ParseSignatureOrExit("48 8b 05 ?? ?? ?? ?? f3 0f 10 88 cc 02 00 00")

	inst := []byte{0x48, 0x8b, 0x05, 0x10, 0x20, 0x30, 0x00, 0xf3, 0x0f, 0x10, 0x88, 0xcc, 0x02, 0x00, 0x00}
	// A partial copy that must not be mistaken for the real thing.
	decoy := append([]byte{}, inst[:10]...)

	data := append([]byte(strings.Repeat("\xcc", 100)), decoy...)
	data = append(data, inst...)

	offset, found := Find(sig, data)
	if !found {
		t.Fatal("expected a match")
	}

	if offset != 110 {
		t.Fatalf("expected offset 110 - got %d", offset)
	}
}
