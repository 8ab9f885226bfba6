package memory_test

import (
	"fmt"

	"gitlab.com/stephen-fox/tskit/memory"
	"gitlab.com/stephen-fox/tskit/pattern"
)

func ExampleRegion_Locate() {
	region := memory.Region{
		Base: 0x140001000,
		Data: []byte{0xcc, 0xcc, 0x48, 0x8b, 0x05, 0x10, 0x00, 0x00, 0x00},
	}

	addr := region.LocateOrExit(pattern.ParseSignatureOrExit("48 8b 05 ?? ?? ?? ??"))

	fmt.Printf("0x%x\n", addr)

	// Output: 0x140001002
}

func ExampleRelativeTarget() {
	data := []byte{0x48, 0x8b, 0x05, 0x10, 0x00, 0x00, 0x00}

	target, err := memory.RelativeTarget(data, 0, 3, 7)
	if err != nil {
		panic(err)
	}

	fmt.Printf("0x%x\n", target)

	// Output: 0x17
}
