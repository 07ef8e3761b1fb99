package llm_test

import (
	"github.com/novabotics/agent-go/pkg/llm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Options", func() {
	It("starts from the default generation settings", func() {
		options := llm.DefaultOptions()

		Expect(options.Temperature).To(Equal(0.7))
		Expect(options.MaxTokens).To(Equal(1000))
		Expect(options.Model).To(Equal("gpt-4"))
	})

	It("applies functional options over the defaults", func() {
		options := llm.DefaultOptions()
		for _, opt := range []llm.Option{
			llm.WithTemperature(0.2),
			llm.WithMaxTokens(500),
			llm.WithModel("gpt-4o"),
		} {
			opt(options)
		}

		Expect(options.Temperature).To(Equal(0.2))
		Expect(options.MaxTokens).To(Equal(500))
		Expect(options.Model).To(Equal("gpt-4o"))
	})
})
