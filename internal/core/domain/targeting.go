package domain

// Target describes where a campaign should be shown. The delivery core only
// stores these attributes; placement and targeting decisions happen in the
// serving layer.
type Target struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// DefaultTarget matches every location.
func DefaultTarget() Target {
	return Target{City: "All", State: "All"}
}
