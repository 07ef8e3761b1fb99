package actions_test

import (
	"time"

	"github.com/novabotics/agent-go/pkg/actions"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ActionConfig", func() {
	It("exposes every supplied key with the exact value given", func() {
		config := actions.NewActionConfig(map[string]any{
			"endpoint": "tcp://base:9090",
			"retries":  3,
			"verbose":  true,
			"gain":     0.7,
		})

		value, ok := config.Get("endpoint")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal("tcp://base:9090"))

		value, ok = config.Get("retries")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(3))

		value, ok = config.Get("verbose")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(true))

		value, ok = config.Get("gain")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(0.7))

		Expect(config.Keys()).To(ConsistOf("endpoint", "retries", "verbose", "gain"))
	})

	It("reports missing keys", func() {
		config := actions.NewActionConfig(nil)

		_, ok := config.Get("anything")
		Expect(ok).To(BeFalse())
	})

	It("stores values set after construction", func() {
		config := actions.NewActionConfig(nil)
		config.Set("zone", "warehouse-2")

		Expect(config.GetString("zone", "")).To(Equal("warehouse-2"))
	})

	It("does not observe later changes to the caller's map", func() {
		source := map[string]any{"zone": "dock"}
		config := actions.NewActionConfig(source)
		source["zone"] = "lobby"

		Expect(config.GetString("zone", "")).To(Equal("dock"))
	})

	Describe("typed getters", func() {
		It("falls back when the key is missing", func() {
			config := actions.NewActionConfig(nil)

			Expect(config.GetString("k", "fallback")).To(Equal("fallback"))
			Expect(config.GetInt("k", 7)).To(Equal(7))
			Expect(config.GetFloat("k", 1.5)).To(Equal(1.5))
			Expect(config.GetBool("k", true)).To(BeTrue())
			Expect(config.GetDuration("k", time.Minute)).To(Equal(time.Minute))
		})

		It("falls back when the value has the wrong shape", func() {
			config := actions.NewActionConfig(map[string]any{"k": []string{"not", "scalar"}})

			Expect(config.GetString("k", "fallback")).To(Equal("fallback"))
			Expect(config.GetInt("k", 7)).To(Equal(7))
		})

		It("converts JSON-decoded numbers to int", func() {
			config := actions.NewActionConfig(map[string]any{"retries": float64(4)})

			Expect(config.GetInt("retries", 0)).To(Equal(4))
		})

		It("accepts ints for float keys", func() {
			config := actions.NewActionConfig(map[string]any{"gain": 2})

			Expect(config.GetFloat("gain", 0)).To(Equal(2.0))
		})

		It("parses duration strings and integer seconds", func() {
			config := actions.NewActionConfig(map[string]any{
				"poll":    "250ms",
				"timeout": 30,
				"tick":    5 * time.Second,
			})

			Expect(config.GetDuration("poll", 0)).To(Equal(250 * time.Millisecond))
			Expect(config.GetDuration("timeout", 0)).To(Equal(30 * time.Second))
			Expect(config.GetDuration("tick", 0)).To(Equal(5 * time.Second))
		})
	})
})
