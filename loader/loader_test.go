package loader_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nohbdy/rsxfrag/insts"
	"github.com/nohbdy/rsxfrag/loader"
)

var _ = Describe("Loader", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "rsxfrag-loader")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	It("should round-trip a program through Save and Load", func() {
		prog := &loader.Program{
			Data:    []byte{0x01, 0x02, 0x03, 0x04},
			Control: insts.ProgramControl(0x8440),
		}

		path := filepath.Join(dir, "shader.rsxfp")
		Expect(loader.Save(prog, path)).To(Succeed())

		loaded, err := loader.Load(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded.Data).To(Equal(prog.Data))
		Expect(loaded.Control).To(Equal(prog.Control))
		Expect(loaded.Control.TxpConversion()).To(BeTrue())
	})

	It("should load a bare binary with a caller control word", func() {
		path := filepath.Join(dir, "shader.bin")
		Expect(os.WriteFile(path, []byte{0xAA, 0xBB}, 0o644)).To(Succeed())

		prog, err := loader.LoadRaw(path, insts.ProgramControl(0x440))
		Expect(err).ToNot(HaveOccurred())
		Expect(prog.Data).To(Equal([]byte{0xAA, 0xBB}))
		Expect(prog.Control.OutputFromR0()).To(BeTrue())
	})

	It("should reject a file that is too short", func() {
		path := filepath.Join(dir, "short.rsxfp")
		Expect(os.WriteFile(path, []byte{'R', 'S'}, 0o644)).To(Succeed())

		_, err := loader.Load(path)
		Expect(err).To(MatchError(ContainSubstring("too short")))
	})

	It("should reject bad magic", func() {
		path := filepath.Join(dir, "bad.rsxfp")
		Expect(os.WriteFile(path, []byte("ELF\x00\x00\x00\x00\x00"), 0o644)).To(Succeed())

		_, err := loader.Load(path)
		Expect(err).To(MatchError(ContainSubstring("bad magic")))
	})

	It("should fail on a missing file", func() {
		_, err := loader.Load(filepath.Join(dir, "absent.rsxfp"))
		Expect(err).To(HaveOccurred())
	})
})
