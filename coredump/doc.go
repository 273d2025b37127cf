// Package coredump decodes raw RAM snapshots produced by crash.Reporter.DumpRaw.
//
// # Overview
//
// A raw dump is the target RAM region copied byte for byte. This package
// maps it back onto target addresses so words and stack ranges can be
// inspected offline:
//
//	core, err := coredump.Parse("dump.bin", 0x3FFE8000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w, _ := core.Word(0x3FFFFFF0)
//	fmt.Printf("0x%08x\n", w)
//
// # Stack rows
//
// WriteStackRows renders memory the way the exception decoder expects:
//
//	3fffff00:  40201234 3ffffe10 3fffff10 00000000 <
//
// Four little-endian words per row. A row is marked with '<' when its third
// word equals the row's offset inside the chunk plus 0x10, which is how a
// saved frame usually looks. The offset is chunk relative, so output depends
// on the chunk size used to read the stack; the reporter and Core.WriteStack
// both use 1024-byte chunks by default.
package coredump
