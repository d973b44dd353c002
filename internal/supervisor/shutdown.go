package supervisor

import (
	"deskhost/internal/logging"
	"deskhost/internal/slot"
)

// ShutdownHook kills the owned backend when the window is closing.
type ShutdownHook struct {
	Slot *slot.Slot
}

// Fire takes the handle out of the slot and kills it. An empty slot is a
// no-op, and kill failures are only logged.
func (h ShutdownHook) Fire() {
	if h.Slot == nil {
		return
	}
	handle, ok := h.Slot.Take()
	if !ok {
		return
	}
	log := logging.Component("shutdown")
	if err := handle.Kill(); err != nil {
		log.Warn().Err(err).Int("pid", handle.PID()).Msg("kill backend failed")
		return
	}
	log.Info().Int("pid", handle.PID()).Msg("backend killed")
}
