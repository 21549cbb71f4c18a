// Package diffusion estimates two-dimensional diffusion coefficients from
// irregularly sampled particle trajectories.
//
// The pipeline has three stages:
//
//   - [Grid] and [Resample]: align every trajectory on a common reference
//     time grid by linear interpolation, never extrapolating;
//   - [Aggregate]: mean squared displacement from each trajectory's own
//     starting point, with its standard error across trajectories;
//   - [Fit]: MSD(t) = 4Dt by least squares, through the origin, and by a
//     direct sweep of the mean squared fit error over candidate D values.
//
// # Example
//
//	trajs, _ := trajectory.LoadGlob(patterns, trajectory.DefaultLayout, opts)
//	curve, _ := diffusion.Aggregate(trajs, diffusion.AggregateOptions{Points: 100})
//	fit, _ := diffusion.Fit(curve, diffusion.FitOptions{TMin: 0.425})
//	fmt.Println(fit.D, fit.DErr)
package diffusion
