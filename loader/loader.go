// Package loader reads fragment-program dumps from disk for the CLI.
//
// Programs normally live in emulator memory; when dumped to a file they
// are stored either as a small container (magic "RSXF", a little-endian
// control word, then the raw microcode) or as the bare microcode bytes
// with the control word supplied by the caller.
package loader

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/nohbdy/rsxfrag/insts"
)

// Magic identifies a fragment-program dump container.
var Magic = [4]byte{'R', 'S', 'X', 'F'}

// headerSize is the container header: magic plus the control word.
const headerSize = 8

// Program is a fragment program ready for translation.
type Program struct {
	// Data contains the raw microcode bytes, still halfword-swapped as
	// they were in emulator memory.
	Data []byte

	// Control is the program's 32-bit control word.
	Control insts.ProgramControl
}

// Load reads a dump container and returns the program it holds.
func Load(path string) (*Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file: %w", err)
	}

	if len(raw) < headerSize {
		return nil, fmt.Errorf("dump file %s too short: %d bytes", path, len(raw))
	}
	if [4]byte(raw[:4]) != Magic {
		return nil, fmt.Errorf("dump file %s has bad magic % X", path, raw[:4])
	}

	ctrl := binary.LittleEndian.Uint32(raw[4:8])
	return &Program{
		Data:    raw[headerSize:],
		Control: insts.ProgramControl(ctrl),
	}, nil
}

// LoadRaw reads a bare microcode binary, pairing it with a caller-provided
// control word.
func LoadRaw(path string, control insts.ProgramControl) (*Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	return &Program{Data: raw, Control: control}, nil
}

// Save writes a program as a dump container.
func Save(prog *Program, path string) error {
	buf := make([]byte, 0, headerSize+len(prog.Data))
	buf = append(buf, Magic[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(prog.Control))
	buf = append(buf, prog.Data...)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write dump file: %w", err)
	}
	return nil
}
