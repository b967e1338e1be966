package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tonytyler99/uavtrack/internal/config"
	"github.com/tonytyler99/uavtrack/internal/sim"
	"github.com/tonytyler99/uavtrack/internal/track"
)

func fly(sc sim.Scenario) *sim.Result {
	GinkgoHelper()
	res, err := sim.NewRunner().Run(context.Background(), sc, config.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	Expect(res.Records).NotTo(BeEmpty())
	return res
}

var _ = Describe("closed-loop scenarios", func() {
	Describe("stand", func() {
		It("locks on and keeps the target centered", func() {
			res := fly(sim.Stand())

			Expect(res.Metrics["time_in_search"]).To(BeZero())
			Expect(res.Metrics["centering_error"]).To(BeNumerically("<", 15))

			tail := res.Records[len(res.Records)-25:]
			for _, rec := range tail {
				Expect(rec.Mode).To(Equal(track.ModeTracking))
				Expect(math.Abs(float64(rec.ErrX))).To(BeNumerically("<=", 8))
			}
		})
	})

	Describe("walk", func() {
		It("follows a crossing target without losing it", func() {
			res := fly(sim.Walk())

			Expect(res.Metrics["time_in_search"]).To(BeNumerically("<", 0.1))
			Expect(res.Metrics["centering_error"]).To(BeNumerically("<", 40))
		})
	})

	Describe("orbit", func() {
		It("pursues with a steady lag but never searches", func() {
			res := fly(sim.Orbit())

			Expect(res.Metrics["time_in_search"]).To(BeZero())
			// a circling target forces a sustained yaw, so some lag is expected
			Expect(res.Metrics["centering_error"]).To(BeNumerically(">", 5))
			Expect(res.Metrics["centering_error"]).To(BeNumerically("<", 60))
		})
	})

	Describe("vanish", func() {
		It("searches through each dropout and reacquires", func() {
			res := fly(sim.Vanish())

			Expect(res.Metrics["reacquisitions"]).To(BeNumerically(">=", 2))
			Expect(res.Metrics["time_in_search"]).To(BeNumerically(">", 0))
			Expect(res.Metrics["time_in_search"]).To(BeNumerically("<", 0.2))

			saw := map[track.Mode]bool{}
			for _, rec := range res.Records {
				saw[rec.Mode] = true
			}
			Expect(saw[track.ModeSearching]).To(BeTrue())
			Expect(saw[track.ModeTracking]).To(BeTrue())
		})
	})

	Describe("decoy", func() {
		It("holds the best-matching face, not the decoys", func() {
			res := fly(sim.Decoy())

			Expect(res.Metrics["time_in_search"]).To(BeZero())
			// only the primary's apparent size sits near 3900; the other
			// actors are well outside this window
			for _, rec := range res.Records {
				Expect(rec.Target.Area).To(BeNumerically("~", 3900, 600))
			}
		})
	})

	Describe("standoff", func() {
		It("closes in and then holds the range band", func() {
			res := fly(sim.Standoff())

			var approached bool
			for _, rec := range res.Records {
				if rec.Command.ForwardBack > 0 {
					approached = true
					break
				}
			}
			Expect(approached).To(BeTrue(), "expected an approach phase")

			tail := res.Records[len(res.Records)-50:]
			for _, rec := range tail {
				Expect(rec.Mode).To(Equal(track.ModeTracking))
				Expect(rec.Target.Area).To(BeNumerically(">=", 3000))
				Expect(rec.Target.Area).To(BeNumerically("<=", 5200))
				Expect(rec.Command.ForwardBack).To(BeZero())
			}
		})
	})
})
