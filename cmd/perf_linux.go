//go:build linux

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
	"github.com/rs/zerolog/log"
)

// countInstructions runs f under a hardware instruction counter. When the
// counter cannot be opened f still runs and zero instructions are reported.
func countInstructions(f func() error) (instructions uint64, err error) {
	var ran bool
	pv, err := perf.CPUInstructions(func() error {
		ran = true
		return f()
	})
	switch {
	case err != nil && !ran:
		log.Warn().Err(err).Msg("cpu instruction counter unavailable")
		return 0, f()
	case err != nil:
		return
	}
	return pv.Value, nil
}
