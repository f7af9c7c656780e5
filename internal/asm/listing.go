// Package asm models the textual instruction listings emitted by the Go
// compiler under -S. It splits the raw dump into per-symbol blocks and
// strips the nondeterministic decoration (code offsets, source paths, data
// dumps) so that recompiling with the same configuration yields
// byte-identical artifacts.
//
// The listings are treated as opaque text beyond that: no operand analysis,
// no semantic interpretation of the instructions.
package asm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Listing is a normalized instruction listing, in source order.
type Listing struct {
	Symbols []Symbol
}

// Symbol is one text symbol and its instructions.
type Symbol struct {
	Name         string
	Instructions []string
}

// instrLine matches one instruction line of -S output:
//
//	\t0x001d 00029 (main.go:36)\tMOVL\t$22110, AX
//
// Capture group 1 is everything after the position decoration.
var instrLine = regexp.MustCompile(`^\t0x[0-9a-f]+ [0-9]+ \([^)]*\)\t(.*)$`)

// symbolHeader matches the opening line of a text symbol block:
//
//	main.main STEXT size=... args=... locals=...
var symbolHeader = regexp.MustCompile(`^(\S+) STEXT`)

// Directives that account for metadata, not generated instructions.
var metadataOps = map[string]bool{
	"FUNCDATA": true,
	"PCDATA":   true,
}

// Parse reads raw -S output and returns the normalized listing. Non-text
// symbols (rodata, type descriptors, DWARF) are dropped.
func Parse(r io.Reader) (*Listing, error) {
	listing := &Listing{}
	var current *Symbol

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		if m := symbolHeader.FindStringSubmatch(line); m != nil {
			listing.Symbols = append(listing.Symbols, Symbol{Name: m[1]})
			current = &listing.Symbols[len(listing.Symbols)-1]
			continue
		}

		m := instrLine.FindStringSubmatch(line)
		if m == nil {
			// Data dumps, relocations, blank lines, non-text symbols.
			current = endSymbolOnNonInstr(line, current)
			continue
		}
		if current == nil {
			continue
		}

		text := normalizeInstr(m[1])
		if text == "" {
			continue
		}
		current.Instructions = append(current.Instructions, text)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning listing: %w", err)
	}

	return listing, nil
}

// endSymbolOnNonInstr closes the current symbol block when a new non-text
// symbol header starts. Continuation lines (data dumps are indented) keep
// the block open so trailing instructions are not misattributed.
func endSymbolOnNonInstr(line string, current *Symbol) *Symbol {
	if len(line) > 0 && line[0] != '\t' && line[0] != ' ' {
		return nil
	}
	return current
}

// normalizeInstr canonicalizes one instruction: tabs collapse to single
// spaces and metadata directives are dropped entirely.
func normalizeInstr(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	if metadataOps[fields[0]] {
		return ""
	}
	return strings.Join(fields, " ")
}

// Symbol returns the named symbol, or nil.
func (l *Listing) Symbol(name string) *Symbol {
	for i := range l.Symbols {
		if l.Symbols[i].Name == name {
			return &l.Symbols[i]
		}
	}
	return nil
}

// InstructionCount is the total instruction count across all symbols.
func (l *Listing) InstructionCount() int {
	n := 0
	for _, s := range l.Symbols {
		n += len(s.Instructions)
	}
	return n
}

// Lines flattens the listing to one line per instruction, prefixed by
// symbol headers. Used for diffing.
func (l *Listing) Lines() []string {
	var lines []string
	for _, s := range l.Symbols {
		lines = append(lines, "TEXT "+s.Name)
		lines = append(lines, s.Instructions...)
	}
	return lines
}

// Render produces the artifact bytes: deterministic, newline-terminated,
// one symbol block per text symbol.
func (l *Listing) Render() []byte {
	var buf bytes.Buffer
	for i, s := range l.Symbols {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "TEXT %s\n", s.Name)
		for _, instr := range s.Instructions {
			fmt.Fprintf(&buf, "\t%s\n", instr)
		}
	}
	return buf.Bytes()
}
