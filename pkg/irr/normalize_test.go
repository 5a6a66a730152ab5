package irr

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalizer", func() {
	n := NewNormalizer([]string{"RADB", "RIPE", "RIPE-NONAUTH"})

	Context("Normalize() should", func() {
		It("fall back to the origin AS for empty input", func() {
			Expect(n.Normalize(64500, "")).To(Equal([]string{"AS64500"}))
			Expect(n.Normalize(64500, "   ")).To(Equal([]string{"AS64500"}))
			Expect(n.Normalize(64500, "\t\n")).To(Equal([]string{"AS64500"}))
		})
		It("split on every separator and keep the order", func() {
			Expect(n.Normalize(64500, "AS-FOO/AS-BAR, AS-BAZ")).To(Equal([]string{"AS-FOO", "AS-BAR", "AS-BAZ"}))
			Expect(n.Normalize(64500, "AS-FOO&AS-BAR\tAS-BAZ")).To(Equal([]string{"AS-FOO", "AS-BAR", "AS-BAZ"}))
			Expect(n.Normalize(64500, ",,AS-FOO // AS-BAR,")).To(Equal([]string{"AS-FOO", "AS-BAR"}))
		})
		It("split on non-ASCII white space", func() {
			for _, raw := range []string{"AS-FOO\vAS-BAR", "AS-FOO\u00a0AS-BAR", "AS-FOO\u2003AS-BAR", "AS-FOO\u0085AS-BAR"} {
				Expect(n.Normalize(64500, raw)).To(Equal([]string{"AS-FOO", "AS-BAR"}), "input %q", raw)
			}
			Expect(n.Normalize(64500, "\u00a0\v")).To(Equal([]string{"AS64500"}))
		})
		It("strip registry sources", func() {
			Expect(n.Normalize(64500, "RADB:AS-FOO")).To(Equal([]string{"AS-FOO"}))
			Expect(n.Normalize(64500, "RADB::AS-FOO")).To(Equal([]string{"AS-FOO"}))
			Expect(n.Normalize(64500, "ripe-nonauth::AS-FOO")).To(Equal([]string{"AS-FOO"}))
		})
		It("strip registry sources case-insensitively", func() {
			Expect(n.Normalize(64500, "radb::as-foo")).To(Equal([]string{"as-foo"}))
			Expect(n.Normalize(64500, "Ripe:AS-FOO")).To(Equal([]string{"AS-FOO"}))
		})
		It("keep unknown sources", func() {
			Expect(n.Normalize(64500, "ARIN::AS-FOO")).To(Equal([]string{"ARIN::AS-FOO"}))
		})
		It("strip address family markers", func() {
			Expect(n.Normalize(64500, "ipv6:AS-FOO")).To(Equal([]string{"AS-FOO"}))
			Expect(n.Normalize(64500, "IPv4:AS-FOO")).To(Equal([]string{"AS-FOO"}))
			Expect(n.Normalize(64500, "RIPE::ipv6:AS-FOO, ipv4:AS-BAR")).To(Equal([]string{"AS-FOO", "AS-BAR"}))
		})
		It("not deduplicate tokens", func() {
			Expect(n.Normalize(64500, "AS-FOO AS-FOO")).To(Equal([]string{"AS-FOO", "AS-FOO"}))
		})
		It("drop tokens that are empty after cleanup", func() {
			Expect(n.Normalize(64500, "ipv6: AS-FOO")).To(Equal([]string{"AS-FOO"}))
			Expect(n.Normalize(64500, "RADB: AS-FOO")).To(Equal([]string{"AS-FOO"}))
			Expect(n.Normalize(64500, "ipv6:")).To(Equal([]string{"AS64500"}))
		})
		It("be idempotent on its own output", func() {
			inputs := []string{
				"",
				"AS-FOO/AS-BAR, AS-BAZ",
				"RADB:RADB::AS-FOO",
				"ipv4:RIPE::AS-BAR",
				"ipv6:ipv4:AS-BAZ & RADB::ipv6:AS-QUX",
				"ipv6:",
			}
			for _, input := range inputs {
				for _, token := range n.Normalize(64500, input) {
					Expect(n.Normalize(64500, token)).To(Equal([]string{token}), "input %q", input)
				}
			}
		})
	})

	Context("NewNormalizer() should", func() {
		It("only strip family markers without sources", func() {
			empty := NewNormalizer(nil)
			Expect(empty.Normalize(64500, "RADB::AS-FOO ipv4:AS-BAR")).To(Equal([]string{"RADB::AS-FOO", "AS-BAR"}))
		})
		It("quote source names", func() {
			dotted := NewNormalizer([]string{"RR.EXAMPLE"})
			Expect(dotted.Normalize(64500, "RRXEXAMPLE:AS-FOO")).To(Equal([]string{"RRXEXAMPLE:AS-FOO"}))
			Expect(dotted.Normalize(64500, "rr.example:AS-FOO")).To(Equal([]string{"AS-FOO"}))
		})
	})
})
