package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tapewalk/tapewalk/pkg/config"
	"github.com/tapewalk/tapewalk/pkg/interpreter"
	"github.com/tapewalk/tapewalk/pkg/tape"
)

var _ = Describe("Config", func() {
	It("should default to a 1024-cell tape and unlimited gas", func() {
		cfg := config.Default()
		Expect(cfg.TapeSize).To(Equal(tape.DefaultSize))
		Expect(cfg.Gas).To(BeZero())
		Expect(cfg.Strict).To(BeFalse())
		Expect(cfg.Validate()).To(Succeed())
	})

	Context("Decode", func() {
		It("should overlay file values on the defaults", func() {
			cfg, err := config.Decode(strings.NewReader("gas: 500\nstrict: true\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Gas).To(Equal(500))
			Expect(cfg.Strict).To(BeTrue())
			Expect(cfg.TapeSize).To(Equal(tape.DefaultSize))
		})

		It("should accept an empty document", func() {
			cfg, err := config.Decode(strings.NewReader(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.Default()))
		})

		It("should reject unknown keys", func() {
			_, err := config.Decode(strings.NewReader("tape: 10\n"))
			Expect(err).To(HaveOccurred())
		})

		It("should reject out-of-range values", func() {
			_, err := config.Decode(strings.NewReader("tape_size: 0\n"))
			Expect(err).To(MatchError(ContainSubstring("tape_size")))

			_, err = config.Decode(strings.NewReader("gas: -1\n"))
			Expect(err).To(MatchError(ContainSubstring("gas")))

			_, err = config.Decode(strings.NewReader("log_level: loud\n"))
			Expect(err).To(MatchError(ContainSubstring("loud")))
		})
	})

	Context("Load", func() {
		It("should read a file from disk", func() {
			path := filepath.Join(GinkgoT().TempDir(), "run.yaml")
			Expect(os.WriteFile(path, []byte("tape_size: 16\ndebug: true\nlog_level: trace\n"), 0o644)).To(Succeed())

			cfg, err := config.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.TapeSize).To(Equal(16))
			Expect(cfg.Debug).To(BeTrue())
		})

		It("should name the file in parse errors", func() {
			path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
			Expect(os.WriteFile(path, []byte("gas: [1, 2]\n"), 0o644)).To(Succeed())

			_, err := config.Load(path)
			Expect(err).To(MatchError(ContainSubstring("bad.yaml")))
		})

		It("should fail on a missing file", func() {
			_, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	It("should apply settings to an interpreter", func() {
		cfg := config.Default()
		cfg.TapeSize = 8
		cfg.Gas = 100
		cfg.Strict = true

		interp := interpreter.New()
		cfg.Apply(interp)
		Expect(interp.Memory.Len()).To(Equal(8))
		Expect(interp.MaxGas).To(Equal(100))
		Expect(interp.Gas).To(Equal(100))
		Expect(interp.Strict).To(BeTrue())
	})

	DescribeTable("ParseLevel",
		func(name string, want slog.Level) {
			got, err := config.ParseLevel(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("trace", "trace", interpreter.LevelTrace),
		Entry("debug", "DEBUG", slog.LevelDebug),
		Entry("empty", "", slog.LevelInfo),
		Entry("warning", "warning", slog.LevelWarn),
		Entry("error", " error ", slog.LevelError),
	)
})
