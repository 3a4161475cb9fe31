package api_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfi/api"
	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/program"
)

func readProgram(name string) string {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	Expect(err).NotTo(HaveOccurred())

	return string(data)
}

var _ = Describe("Programs", func() {
	var (
		driver api.Driver
		out    *bytes.Buffer
	)

	eofZero := config.Config{
		TapeSize: config.Bit16,
		CellSize: config.Bit8,
		EOF:      config.EOFSet0,
	}

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	It("should print hello world", func() {
		driver = api.NewDriverBuilder().Build("Driver")
		Expect(driver.MapProgram(readProgram("hello.b"))).To(Succeed())
		driver.Collect(out)

		Expect(driver.Run()).To(Succeed())
		Expect(out.String()).To(Equal("Hello World!\n"))
	})

	It("should copy its input", func() {
		driver = api.NewDriverBuilder().WithConfig(eofZero).Build("Driver")
		Expect(driver.MapProgram(readProgram("cat.b"))).To(Succeed())
		driver.FeedIn(strings.NewReader("line one\nline two\n"))
		driver.Collect(out)

		Expect(driver.Run()).To(Succeed())
		Expect(out.String()).To(Equal("line one\nline two\n"))
	})

	It("should apply rot13", func() {
		driver = api.NewDriverBuilder().Build("Driver")
		Expect(driver.MapProgram(readProgram("rot13.b"))).To(Succeed())
		driver.FeedIn(strings.NewReader("Hello, World!"))
		driver.Collect(out)

		Expect(driver.Run()).To(Succeed())
		Expect(out.String()).To(Equal("Uryyb, Jbeyq!"))
	})

	It("should run every run on a fresh tape", func() {
		driver = api.NewDriverBuilder().Build("Driver")
		Expect(driver.MapProgram("+++>++")).To(Succeed())

		Expect(driver.Run()).To(Succeed())
		Expect(driver.Run()).To(Succeed())

		s := driver.State()
		Expect(s.Pointer).To(Equal(uint64(1)))
		Expect(s.Tape.Get(0)).To(Equal(uint64(3)))
		Expect(s.Cell()).To(Equal(uint64(2)))
	})

	It("should read remapped operators", func() {
		ops, err := program.ParseOperators("rlpmSEoi")
		Expect(err).NotTo(HaveOccurred())

		driver = api.NewDriverBuilder().WithOperators(ops).Build("Driver")
		Expect(driver.MapProgram("io")).To(Succeed())
		driver.FeedIn(strings.NewReader("Z"))
		driver.Collect(out)

		Expect(driver.Run()).To(Succeed())
		Expect(out.String()).To(Equal("Z"))
	})

	It("should report an endless scan", func() {
		driver = api.NewDriverBuilder().WithConfig(config.Config{
			TapeSize: config.Bit4,
			CellSize: config.Bit8,
			EOF:      config.EOFIgnore,
		}).Build("Driver")

		Expect(driver.MapProgram(strings.Repeat("+>", 16) + "[>]")).To(Succeed())
		Expect(driver.Run()).To(MatchError(core.ErrInfiniteLoop))
	})
})

var _ = Describe("Entry points", func() {
	It("should echo a character with the default configuration", func() {
		prog, err := api.Parse(",.")
		Expect(err).NotTo(HaveOccurred())

		var out bytes.Buffer
		err = api.Interpret(prog, config.Default(), strings.NewReader("A"), &out)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("A"))
	})

	It("should report syntax errors", func() {
		_, err := api.Parse("[")
		Expect(err).To(MatchError(program.ErrUnmatchedLoopStart))
	})

	It("should reject invalid configurations", func() {
		prog, err := api.Parse("+")
		Expect(err).NotTo(HaveOccurred())

		err = api.Interpret(prog, config.Config{}, nil, nil)
		Expect(err).To(MatchError(config.ErrInvalidSize))
	})

	It("should fail on a full tape scan", func() {
		prog, err := api.Parse(strings.Repeat("+>", 16) + "[>]")
		Expect(err).NotTo(HaveOccurred())

		cfg := config.Default()
		cfg.TapeSize = config.Bit4
		err = api.Interpret(prog, cfg, nil, nil)
		Expect(err).To(MatchError(core.ErrInfiniteLoop))
	})

	Context("when logging", func() {
		var (
			logs bytes.Buffer
			prev *slog.Logger
		)

		useLevel := func(level slog.Level) {
			slog.SetDefault(slog.New(slog.NewTextHandler(&logs,
				&slog.HandlerOptions{Level: level})))
		}

		BeforeEach(func() {
			logs.Reset()
			prev = slog.Default()
		})

		AfterEach(func() {
			slog.SetDefault(prev)
		})

		It("should trace runs above the info level", func() {
			prog, err := api.Parse("+.")
			Expect(err).NotTo(HaveOccurred())

			useLevel(slog.LevelInfo)
			Expect(api.Interpret(prog, config.Default(), nil, nil)).To(Succeed())
			Expect(logs.String()).To(ContainSubstring("Behavior=Start"))
			Expect(logs.String()).To(ContainSubstring("Behavior=Finish"))
		})

		It("should stay quiet under a warning handler", func() {
			prog, err := api.Parse("+.")
			Expect(err).NotTo(HaveOccurred())

			useLevel(slog.LevelWarn)
			Expect(api.Interpret(prog, config.Default(), nil, nil)).To(Succeed())
			Expect(logs.Len()).To(BeZero())
		})
	})
})
