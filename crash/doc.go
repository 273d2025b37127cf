// Package crash persists a RAM snapshot when the firmware faults and reports
// it after the next boot.
//
// # Overview
//
// The region lives in flash right after the firmware image, starting at the
// first erase-block boundary:
//
//	block 0       metadata: magic, fault reason, stack bounds
//	blocks 1..k   RAM, verbatim, k = ceil(RAMSize / BlockSize)
//
// Its first word decides its state (region.State): erased, valid or foreign.
// Only Writer and Reporter look at it.
//
//   - Writer moves erased to valid, once per fault
//   - Reporter.Clear moves valid to erased
//   - Reporter.Available moves foreign to erased
//
// Nothing overwrites a valid region. A second fault before the first is
// cleared is dropped, so the first crash of a crash loop survives.
//
// # Writing
//
// Register HandleFault with the platform's fault callback:
//
//	geo := crash.Geometry{BlockSize: 0x1000, RAMBase: 0x3FFE8000, RAMSize: 0x18000}
//	w, err := crash.NewWriter(dev, bounds, ram, geo)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	platform.OnFault(func(info region.FaultInfo, sp, end uint32) {
//	    w.HandleFault(info, sp, end)
//	})
//
// HandleFault does not allocate, log or check storage results.
//
// # Reporting
//
//	rep, err := crash.NewReporter(dev, bounds, geo, resetState,
//	    crash.WithEvents(ring),
//	    crash.WithLogger(myLogger),
//	)
//	if rep.Available() {
//	    rep.Print(os.Stdout)
//	    rep.Clear()
//	}
//
// Print and DumpRaw read storage in chunks (WithChunkSize) through one
// scratch buffer. If the scratch budget is exhausted they write
// InsufficientMemoryNotice instead.
//
// # Error Handling
//
// Constructors return structured errors:
//   - GeometryError: block size, RAM base or RAM size unusable
//   - RegionError: returned by Geometry.Fit when the region crosses the
//     reserved boundary
package crash
