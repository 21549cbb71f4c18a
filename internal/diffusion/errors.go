package diffusion

import "errors"

var (
	// ErrInsufficientData indicates too few usable trajectories or points
	// to build an MSD curve or fit it.
	ErrInsufficientData = errors.New("diffusion: insufficient data")

	// ErrExtrapolation indicates a reference grid reaching outside a
	// trajectory's time span.
	ErrExtrapolation = errors.New("diffusion: grid outside trajectory span")
)
