package pattern_test

import (
	"fmt"

	"gitlab.com/stephen-fox/tskit/pattern"
)

func ExampleFind() {
	sig := pattern.ParseSignatureOrExit("48 8b 05 ?? ?? ?? ??")

	module := []byte{0xcc, 0xcc, 0x48, 0x8b, 0x05, 0x78, 0x56, 0x34, 0x12, 0xc3}

	offset, found := pattern.Find(sig, module)
	fmt.Println(offset, found)

	// Output:
	// 2 true
}

func ExampleSignature_String() {
	sig := pattern.ParseSignatureOrExit("F3 0F 10 88 ? ? 00 00")

	fmt.Println(sig.String())

	// Output:
	// f3 0f 10 88 ?? ?? 00 00
}
