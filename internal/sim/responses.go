package sim

import (
	"github.com/emberworks/firefighter-simulator/core"
	"github.com/emberworks/firefighter-simulator/model"
)

// Summary describes the end state of a finished simulation.
type Summary struct {
	NodesBurned   int             `json:"nodes_burned"`
	NodesDefended int             `json:"nodes_defended"`
	NodesTotal    int             `json:"nodes_total"`
	EndTime       model.TimeUnit  `json:"end_time"`
	ViewBounds    core.GridBounds `json:"view_bounds"`
	ViewCenter    core.Coords     `json:"view_center"`
}

// StepMetadata describes the node state around one specific tick: cumulative
// counts up to and including the tick, plus the exact ids that changed state
// at it.
type StepMetadata struct {
	NodesBurnedBy   int   `json:"nodes_burned_by"`
	NodesDefendedBy int   `json:"nodes_defended_by"`
	NodesBurnedAt   []int `json:"nodes_burned_at"`
	NodesDefendedAt []int `json:"nodes_defended_at"`
}

// Summary builds the end-state summary of the instance.
func (e *Engine) Summary() Summary {
	bounds := e.graph.GridBounds()
	return Summary{
		NodesBurned:   e.nd.NumBurning(),
		NodesDefended: e.nd.NumDefended(),
		NodesTotal:    e.graph.NumNodes,
		EndTime:       e.time,
		ViewBounds:    bounds,
		ViewCenter:    bounds.Center(),
	}
}

// StepMetadata builds the per-tick metadata for time t.
func (e *Engine) StepMetadata(t model.TimeUnit) StepMetadata {
	return StepMetadata{
		NodesBurnedBy:   e.nd.CountBurningBy(t),
		NodesDefendedBy: e.nd.CountDefendedBy(t),
		NodesBurnedAt:   e.nd.BurningAt(t),
		NodesDefendedAt: e.nd.DefendedAt(t),
	}
}
