package region

import "fmt"

// ReasonName returns the short bootloader name for a reset reason.
func ReasonName(reason uint32) string {
	switch reason {
	case ReasonDefault:
		return "DEFAULT"
	case ReasonWDT:
		return "WDT"
	case ReasonException:
		return "EXCEPTION"
	case ReasonSoftWDT:
		return "SOFT_WDT"
	case ReasonSoftRestart:
		return "SOFT_RESTART"
	case ReasonDeepSleepAwake:
		return "DEEP_SLEEP_AWAKE"
	case ReasonExtSys:
		return "EXT_SYS_RST"
	default:
		return "???"
	}
}

// FormatResetInfo renders a fault-reason descriptor the way the SDK's reset
// info string does. A plain power-on has no exception details.
func FormatResetInfo(f FaultInfo) string {
	if f.Reason == ReasonDefault {
		return "flag: 0"
	}
	return fmt.Sprintf("Fatal exception:%d flag:%d (%s) epc1:0x%08x epc2:0x%08x epc3:0x%08x excvaddr:0x%08x depc:0x%08x",
		f.ExcCause, f.Reason, ReasonName(f.Reason), f.EPC1, f.EPC2, f.EPC3, f.ExcVAddr, f.DEPC)
}
