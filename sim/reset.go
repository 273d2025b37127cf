package sim

import (
	"sync"

	"github.com/moffa90/go-crashtrace/region"
)

// ResetState holds the live reset reason. It implements crash.ResetState.
type ResetState struct {
	mu   sync.Mutex
	info region.FaultInfo
}

// NewResetState creates a reset state holding info.
func NewResetState(info region.FaultInfo) *ResetState {
	return &ResetState{info: info}
}

// ResetInfo returns the live reset reason.
func (s *ResetState) ResetInfo() region.FaultInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// SetResetInfo replaces the live reset reason.
func (s *ResetState) SetResetInfo(info region.FaultInfo) {
	s.mu.Lock()
	s.info = info
	s.mu.Unlock()
}

// String formats the live reset reason.
func (s *ResetState) String() string {
	return region.FormatResetInfo(s.ResetInfo())
}
