package asm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawListing is a trimmed -S dump in the shape the gc toolchain emits:
// a text symbol with position-decorated instructions, metadata directives,
// a hex dump, relocations, and trailing non-text symbols.
const rawListing = "main.main STEXT size=103 args=0x0 locals=0x18 funcid=0x0 align=0x0\n" +
	"\t0x0000 00000 (/home/build/variants/plain/main.go:33)\tTEXT\tmain.main(SB), ABIInternal, $24-0\n" +
	"\t0x0000 00000 (/home/build/variants/plain/main.go:33)\tCMPQ\tSP, 16(R14)\n" +
	"\t0x0004 00004 (/home/build/variants/plain/main.go:33)\tPCDATA\t$0, $-2\n" +
	"\t0x0004 00004 (/home/build/variants/plain/main.go:33)\tJLS\t96\n" +
	"\t0x0006 00006 (/home/build/variants/plain/main.go:33)\tPUSHQ\tBP\n" +
	"\t0x0007 00007 (/home/build/variants/plain/main.go:33)\tMOVQ\tSP, BP\n" +
	"\t0x000e 00014 (/home/build/variants/plain/main.go:54)\tFUNCDATA\t$0, gclocals·g2BeySu+wFnoycgXfElmcg==(SB)\n" +
	"\t0x000e 00014 (/home/build/variants/plain/main.go:54)\tCALL\truntime.printlock(SB)\n" +
	"\t0x0013 00019 (/home/build/variants/plain/main.go:54)\tMOVL\t$22110, AX\n" +
	"\t0x0018 00024 (/home/build/variants/plain/main.go:54)\tCALL\truntime.printint(SB)\n" +
	"\t0x0000 65 48 8b 0c 25 00 00 00 00 48 3b 61 10 76 4d 55  eH..%....H;a.v.MU\n" +
	"\trel 19+4 t=R_CALL runtime.printlock+0\n" +
	"go:cuinfo.producer.main SDWARFCUINFO dupok size=0\n" +
	"\t0x0000 72 65 67 61 62 69                                regabi\n" +
	"main.statictmp SRODATA size=8\n" +
	"\t0x0000 00 00 00 00 00 00 00 00                          ........\n"

func TestParse_SplitsSymbolsAndStripsDecoration(t *testing.T) {
	listing, err := Parse(strings.NewReader(rawListing))
	require.NoError(t, err)

	require.Len(t, listing.Symbols, 1, "non-text symbols are dropped")
	sym := listing.Symbol("main.main")
	require.NotNil(t, sym)

	// PCDATA and FUNCDATA are metadata, not instructions.
	assert.Equal(t, 8, len(sym.Instructions))
	assert.Equal(t, 8, listing.InstructionCount())

	assert.Equal(t, "TEXT main.main(SB), ABIInternal, $24-0", sym.Instructions[0])
	assert.Equal(t, "MOVL $22110, AX", sym.Instructions[6])

	for _, instr := range sym.Instructions {
		assert.NotContains(t, instr, "main.go", "source positions are stripped")
		assert.NotContains(t, instr, "\t", "tabs collapse to spaces")
	}
}

func TestParse_SymbolLookupMiss(t *testing.T) {
	listing, err := Parse(strings.NewReader(rawListing))
	require.NoError(t, err)
	assert.Nil(t, listing.Symbol("main.missing"))
}

func TestParse_EmptyInput(t *testing.T) {
	listing, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, listing.Symbols)
	assert.Equal(t, 0, listing.InstructionCount())
}

func TestParse_Deterministic(t *testing.T) {
	first, err := Parse(strings.NewReader(rawListing))
	require.NoError(t, err)
	second, err := Parse(strings.NewReader(rawListing))
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first.Render(), second.Render()))
}

func TestLines_PrefixesSymbolHeader(t *testing.T) {
	listing, err := Parse(strings.NewReader(rawListing))
	require.NoError(t, err)

	lines := listing.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "TEXT main.main", lines[0])
	assert.Len(t, lines, 1+listing.InstructionCount())
}

func TestRender_Golden(t *testing.T) {
	listing, err := Parse(strings.NewReader(rawListing))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "plain_listing", listing.Render())
}
