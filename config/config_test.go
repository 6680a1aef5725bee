package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nohbdy/rsxfrag/config"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "rsxfrag-config")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	It("should provide sensible defaults", func() {
		cfg := config.DefaultConfig()

		Expect(cfg.Translate.ControlWord).To(Equal(uint32(0x440)))
		Expect(cfg.Translate.SurfaceUnimplemented).To(BeFalse())
		Expect(cfg.Translate.OutputDir).To(Equal("."))
		Expect(cfg.Batch.Workers).To(BeZero())
	})

	It("should round-trip through Save and Load", func() {
		cfg := config.DefaultConfig()
		cfg.Translate.ControlWord = 0x8440
		cfg.Translate.SurfaceUnimplemented = true
		cfg.Batch.Workers = 8

		path := filepath.Join(dir, "rsxfrag.toml")
		Expect(config.Save(cfg, path)).To(Succeed())

		loaded, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(cfg))
	})

	It("should apply defaults for fields missing from the file", func() {
		path := filepath.Join(dir, "partial.toml")
		Expect(os.WriteFile(path, []byte("[batch]\nworkers = 2\n"), 0o644)).To(Succeed())

		cfg, err := config.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Batch.Workers).To(Equal(2))
		Expect(cfg.Translate.ControlWord).To(Equal(uint32(0x440)))
	})

	It("should fail on a missing file", func() {
		_, err := config.Load(filepath.Join(dir, "absent.toml"))
		Expect(err).To(HaveOccurred())
	})

	It("should fail on malformed TOML", func() {
		path := filepath.Join(dir, "broken.toml")
		Expect(os.WriteFile(path, []byte("[translate\ncontrol_word ="), 0o644)).To(Succeed())

		_, err := config.Load(path)
		Expect(err).To(HaveOccurred())
	})
})
