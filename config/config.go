// Package config holds the simulator-wide Properties table (coresize,
// cycle/process/warrior-length limits, minimum separation between loaded
// warriors) and a flag.FlagSet-based loader for it.
package config

import "flag"

// Properties mirrors the standard MarsProperties table: every limit a
// tournament run is parameterised by.
type Properties struct {
	Coresize      int // size of the memory array
	MaxCycles     int // cycles before a round is declared a draw
	MaxProcesses  int // per-warrior thread queue cap; SPL degrades to NOP past this
	MaxLength     int // max instructions in a loaded warrior
	MinDistance   int // minimum separation enforced between two warriors' start addresses
	ReadDistance  int // how far from pc a read may reach; Default sets it equal to Coresize (8000), and FlagSet does not tie it to -coresize
	WriteDistance int // how far from pc a write may reach; Default sets it equal to Coresize (8000), and FlagSet does not tie it to -coresize
}

// Default returns the standard ICWS'94 property set.
func Default() Properties {
	return Properties{
		Coresize:      8000,
		MaxCycles:     80000,
		MaxProcesses:  8000,
		MaxLength:     100,
		MinDistance:   100,
		ReadDistance:  8000,
		WriteDistance: 8000,
	}
}

// FlagSet registers p's fields on fs, defaulted from Default(), so a
// command can let its user override any of them from the command line
// before calling fs.Parse.
func FlagSet(fs *flag.FlagSet) *Properties {
	d := Default()
	p := &Properties{}
	fs.IntVar(&p.Coresize, "coresize", d.Coresize, "size of the core")
	fs.IntVar(&p.MaxCycles, "max-cycles", d.MaxCycles, "cycles before a round is declared a draw")
	fs.IntVar(&p.MaxProcesses, "max-processes", d.MaxProcesses, "max queued threads per warrior")
	fs.IntVar(&p.MaxLength, "max-length", d.MaxLength, "max instructions per warrior")
	fs.IntVar(&p.MinDistance, "min-distance", d.MinDistance, "minimum separation between warriors")
	fs.IntVar(&p.ReadDistance, "read-distance", d.ReadDistance, "max read distance from pc")
	fs.IntVar(&p.WriteDistance, "write-distance", d.WriteDistance, "max write distance from pc")
	return p
}
