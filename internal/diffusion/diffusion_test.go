package diffusion_test

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simstats/internal/diffusion"
	"github.com/san-kum/simstats/internal/trajectory"
)

func mustTrajectory(source string, t, x, y []float64) *trajectory.Trajectory {
	tr, dropped := trajectory.New(source, t, x, y)
	Expect(dropped).To(BeZero())
	return tr
}

var quiet = log.New(io.Discard, "", 0)

var _ = Describe("Aggregate", func() {
	var a, b *trajectory.Trajectory

	BeforeEach(func() {
		a = mustTrajectory("a", []float64{0, 1, 2}, []float64{0, 1, 2}, []float64{0, 0, 0})
		b = mustTrajectory("b", []float64{0, 1, 2}, []float64{0, 0, 0}, []float64{0, 1, 2})
	})

	It("averages squared displacement on the shared grid", func() {
		curve, err := diffusion.Aggregate([]*trajectory.Trajectory{a, b}, diffusion.AggregateOptions{Points: 3, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.T).To(Equal([]float64{0, 1, 2}))
		Expect(curve.MSD).To(HaveLen(3))
		Expect(curve.MSD[0]).To(BeZero())
		Expect(curve.MSD[1]).To(BeNumerically("~", 1, 1e-12))
		Expect(curve.MSD[2]).To(BeNumerically("~", 4, 1e-12))
		Expect(curve.StdErr).To(ConsistOf(0.0, 0.0, 0.0))
		Expect(curve.Trajectories).To(Equal(2))
	})

	It("starts every curve at zero", func() {
		c := mustTrajectory("c", []float64{0, 0.3, 1.7, 4}, []float64{5, 6, 2, 9}, []float64{-1, 3, 3, 0})
		curve, err := diffusion.Aggregate([]*trajectory.Trajectory{a, c}, diffusion.AggregateOptions{Points: 10, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.MSD[0]).To(BeZero())
	})

	It("never extends the grid past the shortest trajectory", func() {
		long := mustTrajectory("long", []float64{0, 5, 10}, []float64{0, 1, 2}, []float64{0, 1, 2})
		curve, err := diffusion.Aggregate([]*trajectory.Trajectory{a, long}, diffusion.AggregateOptions{Points: 50, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.T[len(curve.T)-1]).To(BeNumerically("<=", 2))
	})

	It("honours the cutoff", func() {
		curve, err := diffusion.Aggregate([]*trajectory.Trajectory{a, b}, diffusion.AggregateOptions{Points: 5, Cutoff: 1, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.T[len(curve.T)-1]).To(Equal(1.0))
	})

	It("excludes a one-row file with a warning", func() {
		dir := GinkgoT().TempDir()
		one := filepath.Join(dir, "one.txt")
		Expect(os.WriteFile(one, []byte("1 0.1 0.2 0 0 0.0\n"), 0o644)).To(Succeed())

		var buf bytes.Buffer
		lg := log.New(&buf, "", 0)
		single, err := trajectory.Load(one, trajectory.DefaultLayout, trajectory.Options{Logger: lg})
		Expect(err).NotTo(HaveOccurred())
		Expect(single.Len()).To(Equal(1))

		curve, err := diffusion.Aggregate([]*trajectory.Trajectory{a, single, b}, diffusion.AggregateOptions{Points: 3, Logger: lg})
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.Trajectories).To(Equal(2))
		Expect(buf.String()).To(ContainSubstring("warning: excluding"))
		Expect(buf.String()).To(ContainSubstring("one.txt"))
	})

	It("fails when nothing can be interpolated", func() {
		single := mustTrajectory("s", []float64{0}, []float64{0}, []float64{0})
		_, err := diffusion.Aggregate([]*trajectory.Trajectory{single}, diffusion.AggregateOptions{Logger: quiet})
		Expect(err).To(MatchError(diffusion.ErrInsufficientData))
	})
})

var _ = Describe("Resample", func() {
	It("reproduces the samples at their own times", func() {
		tr := mustTrajectory("r", []float64{0, 0.5, 2, 3}, []float64{1, 4, -2, 7}, []float64{0, 3, 3, 1})
		xs, ys, err := diffusion.Resample(tr, tr.T)
		Expect(err).NotTo(HaveOccurred())
		for i := range tr.T {
			Expect(xs[i]).To(BeNumerically("~", tr.X[i], 1e-12))
			Expect(ys[i]).To(BeNumerically("~", tr.Y[i], 1e-12))
		}
	})

	It("refuses to extrapolate", func() {
		tr := mustTrajectory("r", []float64{0, 1}, []float64{0, 1}, []float64{0, 1})
		_, _, err := diffusion.Resample(tr, []float64{0, 2})
		Expect(err).To(MatchError(diffusion.ErrExtrapolation))
	})
})

var _ = Describe("Fit", func() {
	It("recovers D = 0.5 from the two-walker example", func() {
		curve := &diffusion.Curve{
			T:      []float64{0, 1, 2},
			MSD:    []float64{0, 1, 4},
			StdErr: []float64{0, 0, 0},
		}
		res, err := diffusion.Fit(curve, diffusion.FitOptions{Logger: quiet})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.D).To(BeNumerically("~", 0.5, 1e-12))
		Expect(res.Points).To(Equal(3))
		Expect(res.DOrigin).To(BeNumerically("~", 0.45, 1e-12))
		Expect(res.DSweep).To(BeNumerically("~", 0.45, 0.01))
	})

	It("rejects windows with fewer than two points", func() {
		curve := &diffusion.Curve{T: []float64{0, 1, 2}, MSD: []float64{0, 1, 4}, StdErr: []float64{0, 0, 0}}
		_, err := diffusion.Fit(curve, diffusion.FitOptions{TMin: 1.5, Logger: quiet})
		Expect(err).To(MatchError(diffusion.ErrInsufficientData))
	})

	It("warns when the estimates disagree", func() {
		curve := &diffusion.Curve{
			T:      []float64{0, 1, 2, 3},
			MSD:    []float64{5, 5.1, 5.2, 5.3},
			StdErr: []float64{0, 0, 0, 0},
		}
		var buf bytes.Buffer
		_, err := diffusion.Fit(curve, diffusion.FitOptions{Logger: log.New(&buf, "", 0)})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("warning: least-squares"))
	})

	It("recovers the coefficient of synthetic random walks", func() {
		const d = 0.25
		trajs, err := diffusion.Synthesize(diffusion.SynthOptions{
			D: d, Trajectories: 400, Steps: 200, Dt: 0.01, Irregular: true, Seed: 7,
		})
		Expect(err).NotTo(HaveOccurred())

		curve, err := diffusion.Aggregate(trajs, diffusion.AggregateOptions{Points: 50, Cutoff: 1, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())

		res, err := diffusion.Fit(curve, diffusion.FitOptions{Refine: true, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.D).To(BeNumerically("~", d, 0.2*d))
		Expect(res.DSweep).To(BeNumerically("~", d, 0.2*d))
		Expect(res.R2).To(BeNumerically(">", 0.9))
	})
})
