// Package flash provides erase-before-write storage backends for crash
// snapshots.
//
// # Semantics
//
// Both backends model NOR flash:
//   - EraseBlock sets every byte of one block to 0xFF
//   - Write can only clear bits; the stored byte becomes old & new
//   - Read returns the stored bytes
//
// Operations that fall outside the device are dropped. Memory counts them
// so tests can assert that a caller never strayed out of bounds.
//
// # Backends
//
// Memory keeps the whole device in RAM and records every erase:
//
//	dev := flash.NewMemory(4<<20, 0x1000)
//	dev.EraseBlock(0x80)
//	fmt.Println(dev.Erases()) // [128]
//
// File keeps a flash image on disk, creating it erased when missing:
//
//	img, err := flash.OpenFile("flash.bin", 4<<20, 0x1000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer img.Close()
//
// The storage contract returns no errors, matching the target's flash
// primitives. File keeps the first I/O failure for Err.
package flash
