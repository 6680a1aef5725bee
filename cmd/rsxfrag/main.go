// rsxfrag translates RSX fragment-program dumps into GLSL 330 source.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nohbdy/rsxfrag/config"
	"github.com/nohbdy/rsxfrag/insts"
	"github.com/nohbdy/rsxfrag/loader"
	"github.com/nohbdy/rsxfrag/translator"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rsxfrag",
		Short: "RSX fragment shader translator — microcode to GLSL 330",
	}

	var (
		ctrlWord   uint32
		raw        bool
		configPath string
		outPath    string
		surface    bool
	)

	translateCmd := &cobra.Command{
		Use:   "translate <dump>",
		Short: "Translate a fragment-program dump to GLSL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("ctrl") {
				cfg.Translate.ControlWord = ctrlWord
			}
			if cmd.Flags().Changed("surface-unimplemented") {
				cfg.Translate.SurfaceUnimplemented = surface
			}

			prog, err := load(args[0], raw, cfg.Translate.ControlWord)
			if err != nil {
				return err
			}

			result, err := translator.Translate(prog.Data, prog.Control,
				translator.WithSurfaceUnimplemented(cfg.Translate.SurfaceUnimplemented))
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}
			if result.UnclosedBlocks {
				fmt.Fprintln(os.Stderr, "warning: program ended with open control-flow blocks")
			}

			if outPath == "" {
				fmt.Print(result.GLSL)
				return nil
			}
			dest := outPath
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(cfg.Translate.OutputDir, dest)
			}
			return os.WriteFile(dest, []byte(result.GLSL), 0o644)
		},
	}
	translateCmd.Flags().Uint32Var(&ctrlWord, "ctrl", 0x440, "Control word for raw dumps")
	translateCmd.Flags().BoolVar(&raw, "raw", false, "Treat input as bare microcode without a container header")
	translateCmd.Flags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	translateCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write GLSL to a file instead of stdout")
	translateCmd.Flags().BoolVar(&surface, "surface-unimplemented", false, "Mark unimplemented opcodes in the output")

	var long bool
	hashCmd := &cobra.Command{
		Use:   "hash <dump>",
		Short: "Print a program's cache fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := load(args[0], raw, ctrlWord)
			if err != nil {
				return err
			}

			result, err := translator.Translate(prog.Data, prog.Control)
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}

			if long {
				fmt.Printf("%016x%016x\n", result.Hash128.H1, result.Hash128.H2)
			} else {
				fmt.Printf("%08x\n", result.Hash)
			}
			return nil
		},
	}
	hashCmd.Flags().Uint32Var(&ctrlWord, "ctrl", 0x440, "Control word for raw dumps")
	hashCmd.Flags().BoolVar(&raw, "raw", false, "Treat input as bare microcode without a container header")
	hashCmd.Flags().BoolVar(&long, "long", false, "Print the 128-bit fingerprint")

	infoCmd := &cobra.Command{
		Use:   "info <dump>",
		Short: "Parse a dump and print program statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := load(args[0], raw, ctrlWord)
			if err != nil {
				return err
			}

			parser := insts.NewParser(prog.Data)
			list, stats, err := parser.Parse()
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}

			fmt.Printf("size:          %d bytes (%d lines)\n", stats.Size, stats.Size/insts.BytesPerLine)
			fmt.Printf("instructions:  %d\n", countInstructions(list))
			fmt.Printf("registers:     %d\n", prog.Control.RegisterCount())
			fmt.Printf("output from:   %s\n", outputRegister(prog.Control))
			fmt.Printf("depth replace: %v\n", prog.Control.DepthReplace())
			fmt.Printf("hash:          %08x\n", translator.HashProgram(prog.Data[:stats.Size]))
			if stats.UnclosedBlocks {
				fmt.Println("warning: program ended with open control-flow blocks")
			}
			return nil
		},
	}
	infoCmd.Flags().Uint32Var(&ctrlWord, "ctrl", 0x440, "Control word for raw dumps")
	infoCmd.Flags().BoolVar(&raw, "raw", false, "Treat input as bare microcode without a container header")

	rootCmd.AddCommand(translateCmd, hashCmd, infoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func load(path string, raw bool, ctrl uint32) (*loader.Program, error) {
	if raw {
		return loader.LoadRaw(path, insts.ProgramControl(ctrl))
	}
	return loader.Load(path)
}

func countInstructions(list []*insts.Instruction) int {
	n := 0
	for _, in := range list {
		n++
		n += countInstructions(in.Body)
		n += countInstructions(in.ElseBody)
	}
	return n
}

func outputRegister(ctrl insts.ProgramControl) string {
	if ctrl.OutputFromR0() {
		return "r0"
	}
	return "h0"
}
