// Command marsdebug is an interactive single-warrior stepper: it loads one
// Redcode program into a fresh core and lets you single-step its threads,
// watching the memory window and thread queue change.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"mars"
	"mars/config"
)

func main() {
	fs := flag.NewFlagSet("marsdebug", flag.ExitOnError)
	props := config.FlagSet(fs)
	source := fs.String("warrior", "", "path to a Redcode source file")
	base := fs.Int("base", 0, "address to load the warrior at")
	fs.Parse(os.Args[1:])

	if *source == "" {
		glog.Fatalf("marsdebug: -warrior is required")
	}
	code, err := os.ReadFile(*source)
	if err != nil {
		glog.Fatalf("marsdebug: reading %s: %v", *source, err)
	}

	m := mars.New(*props)
	w, err := mars.LoadWarrior(m, *source, string(code), *base)
	if err != nil {
		glog.Fatalf("marsdebug: loading %s: %v", *source, err)
	}

	Debug(m, w)
}
