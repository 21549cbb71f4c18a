package oscillator_test

import (
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simstats/internal/oscillator"
)

var quiet = log.New(io.Discard, "", 0)

var _ = Describe("Params", func() {
	It("accepts the default underdamped set", func() {
		p := oscillator.DefaultParams()
		Expect(p.Validate()).To(Succeed())
		Expect(p.Analytic(0)).To(Equal(1.0))
		Expect(p.V0()).To(BeNumerically("~", -100.0/140.0, 1e-15))
	})

	It("rejects overdamped parameters", func() {
		p := oscillator.DefaultParams()
		p.Gamma = 5000
		Expect(p.Validate()).To(MatchError(oscillator.ErrOverdamped))

		_, err := oscillator.Run(p, 1e-3, []string{"verlet"})
		Expect(err).To(MatchError(oscillator.ErrOverdamped))
	})

	It("counts the steps that fit in tf", func() {
		p := oscillator.DefaultParams()
		Expect(p.Steps(1e-2)).To(Equal(500))
		Expect(p.Steps(1e-3)).To(Equal(5000))
	})
})

var _ = Describe("Run", func() {
	var p oscillator.Params

	BeforeEach(func() {
		p = oscillator.DefaultParams()
		p.Tf = 0.5
	})

	It("samples every step from t=0", func() {
		run, err := oscillator.Run(p, 1e-2, []string{"verlet", "beeman", "gear5"})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.T).To(HaveLen(51))
		Expect(run.T[0]).To(BeZero())
		Expect(run.T[50]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(run.Positions).To(HaveLen(3))
		for _, pos := range run.Positions {
			Expect(pos).To(HaveLen(51))
			Expect(pos[0]).To(Equal(1.0))
		}
		Expect(run.MSE).To(HaveLen(3))
	})

	It("ranks gear5 ahead of verlet", func() {
		run, err := oscillator.Run(p, 1e-3, []string{"verlet", "gear5"})
		Expect(err).NotTo(HaveOccurred())
		Expect(run.MSE[1]).To(BeNumerically("<", run.MSE[0]))
	})

	It("rejects an unknown integrator", func() {
		_, err := oscillator.Run(p, 1e-3, []string{"magic"})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a non-positive dt", func() {
		_, err := oscillator.Run(p, 0, []string{"verlet"})
		Expect(err).To(MatchError(oscillator.ErrInvalidStep))
	})
})

var _ = Describe("Sweep", func() {
	var (
		p   oscillator.Params
		dir string
	)

	BeforeEach(func() {
		p = oscillator.DefaultParams()
		p.Tf = 0.2
		dir = GinkgoT().TempDir()
	})

	It("shrinks the error with dt and round-trips the table", func() {
		names := []string{"verlet", "beeman", "gear5"}
		et, err := oscillator.Sweep(p, []float64{1e-2, 1e-3, 1e-4}, names, oscillator.SweepOptions{Dir: dir, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())

		verlet, ok := et.Column("verlet")
		Expect(ok).To(BeTrue())
		Expect(verlet[1]).To(BeNumerically("<", verlet[0]))
		Expect(verlet[2]).To(BeNumerically("<", verlet[1]))

		for _, dt := range et.Dt {
			Expect(filepath.Join(dir, oscillator.ResultsFile(dt))).To(BeAnExistingFile())
		}

		back, err := oscillator.ReadErrors(filepath.Join(dir, oscillator.ErrorsFile), quiet)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Methods).To(Equal(names))
		Expect(back.Dt).To(HaveLen(3))
		Expect(back.Dt[1]).To(BeNumerically("~", 1e-3, 1e-15))
		for i := range et.MSE {
			for j := range et.MSE[i] {
				Expect(back.MSE[i][j]).To(BeNumerically("~", et.MSE[i][j], 1e-12*et.MSE[i][j]+1e-300))
			}
		}
	})

	It("writes results files that read back", func() {
		_, err := oscillator.Sweep(p, []float64{1e-2}, []string{"gear5"}, oscillator.SweepOptions{Dir: dir, Logger: quiet})
		Expect(err).NotTo(HaveOccurred())

		Expect(oscillator.ResultsFile(1e-2)).To(Equal("resultados_dt_1E-02.csv"))
		run, err := oscillator.ReadResults(filepath.Join(dir, "resultados_dt_1E-02.csv"), quiet)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Methods).To(Equal([]string{"gear5"}))
		Expect(run.T).To(HaveLen(21))
		Expect(run.Dt).To(BeNumerically("~", 1e-2, 1e-12))
	})
})

var _ = Describe("ReadErrors", func() {
	It("distinguishes a missing file from an empty table", func() {
		dir := GinkgoT().TempDir()

		_, err := oscillator.ReadErrors(filepath.Join(dir, "missing.txt"), quiet)
		Expect(err).To(MatchError(fs.ErrNotExist))

		empty := filepath.Join(dir, "empty.txt")
		Expect(os.WriteFile(empty, []byte("dt,ecm_verlet\n"), 0o644)).To(Succeed())
		_, err = oscillator.ReadErrors(empty, quiet)
		Expect(err).To(MatchError(oscillator.ErrEmptyTable))
	})
})

var _ = Describe("EstimateFrequencies", func() {
	It("recovers the damped angular frequency from every trajectory", func() {
		p := oscillator.DefaultParams()
		run, err := oscillator.Run(p, 1e-3, []string{"verlet", "gear5"})
		Expect(err).NotTo(HaveOccurred())

		f, err := oscillator.EstimateFrequencies(p, run)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Expected).To(BeNumerically("~", 11.93, 0.01))
		Expect(f.Analytic).To(BeNumerically("~", f.Expected, 0.02*f.Expected))
		Expect(f.Methods).To(HaveLen(2))
		for _, w := range f.Methods {
			Expect(w).To(BeNumerically("~", f.Expected, 0.02*f.Expected))
		}
	})
})
