package supply

import "context"

// GetConfigRequest is the sole request envelope the supply chain carries.
// Reply is a capability consumable exactly once; Ctx carries the caller's
// deadline so a worker that finishes after the caller gave up can skip the
// now-pointless send instead of blindly writing into an abandoned buffer.
type GetConfigRequest struct {
	Stage       string
	Environment string
	Component   string
	Ctx         context.Context
	Reply       chan *GetConfigResponse
}

// GetConfigResponse is the sole response envelope. Exactly one of Data/Err
// is set.
type GetConfigResponse struct {
	Data []byte
	Err  error
}

func newReplyChan() chan *GetConfigResponse {
	// Capacity 1: the worker's send never blocks even if the caller has
	// already stopped reading, mirroring a one-shot sender that can be
	// fulfilled from a different task than the one that allocated it.
	return make(chan *GetConfigResponse, 1)
}
