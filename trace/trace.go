// Package trace loads memory-access traces that drive the simulator.
//
// A trace is a line-oriented text file. Each record is a kind letter and a
// virtual address:
//
//	R 0x1000    # read
//	W 4096      # write
//	I 0x2000    # invalidate the page containing the address
//
// Addresses are decimal or 0x-prefixed hexadecimal. Blank lines and lines
// starting with '#' are ignored; '#' also starts a trailing comment.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind is the type of a trace record.
type Kind int

const (
	// Read is a load access.
	Read Kind = iota
	// Write is a store access.
	Write
	// Invalidate removes the page's mapping from the hierarchy.
	Invalidate
)

// String returns the record letter for the kind.
func (k Kind) String() string {
	switch k {
	case Read:
		return "R"
	case Write:
		return "W"
	case Invalidate:
		return "I"
	default:
		return "?"
	}
}

// Access is one record of a trace.
type Access struct {
	Kind Kind
	Addr uint64
}

// Load reads and parses a trace file.
func Load(path string) ([]Access, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()

	accesses, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return accesses, nil
}

// Parse reads a trace from r. Errors carry the 1-based line number of the
// offending record.
func Parse(r io.Reader) ([]Access, error) {
	var accesses []Access

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected '<kind> <address>', got %q", lineNum, line)
		}

		var kind Kind
		switch strings.ToUpper(fields[0]) {
		case "R":
			kind = Read
		case "W":
			kind = Write
		case "I":
			kind = Invalidate
		default:
			return nil, fmt.Errorf("line %d: unknown access kind %q", lineNum, fields[0])
		}

		addr, err := strconv.ParseUint(fields[1], 0, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid address %q", lineNum, fields[1])
		}

		accesses = append(accesses, Access{Kind: kind, Addr: addr})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return accesses, nil
}
