package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"

	"mars"
	"mars/vm"
)

type model struct {
	m       *mars.Mars
	warrior *vm.Warrior
	prevPC  int
	ticks   int
	err     error
}

// Init loads nothing further: the warrior is already seeded into Memory by
// the caller before the program starts.
func (md model) Init() tea.Cmd {
	glog.Infof("debugger attached to warrior %q", md.warrior.Name)
	return nil
}

// Update steps the warrior by exactly one instruction per " "/"j" keypress,
// tracing every step to glog and quitting on "q" or a dead/unseeded
// warrior.
func (md model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return md, tea.Quit
		case " ", "j":
			threads := md.warrior.Threads()
			if len(threads) > 0 {
				md.prevPC = threads[0]
			}
			if err := md.warrior.Run(md.m.Memory); err != nil {
				md.err = err
				glog.Infof("warrior %q stopped: %v", md.warrior.Name, err)
				return md, tea.Quit
			}
			md.ticks++
			glog.Infof("tick %d: pc=%d %s", md.ticks, md.prevPC, md.m.Memory.Read(md.prevPC))
		}
	}
	return md, nil
}

const window = 8

// renderPage renders `window` memory cells starting at start, one per
// line, highlighting the previously executed cell.
func (md model) renderPage(start int) string {
	var b strings.Builder
	for i := 0; i < window; i++ {
		addr := start + i
		cell := md.m.Memory.Read(addr)
		if addr == md.prevPC {
			fmt.Fprintf(&b, "[%04d] %s\n", addr, cell)
		} else {
			fmt.Fprintf(&b, " %04d  %s\n", addr, cell)
		}
	}
	return b.String()
}

func (md model) status() string {
	return fmt.Sprintf("warrior: %s\nalive:   %v\nticks:   %d\nthreads: %v",
		md.warrior.Name, md.warrior.Alive(), md.ticks, md.warrior.Threads())
}

// View renders the current memory window beside the warrior's status, plus
// a go-spew dump of the instruction at prevPC.
func (md model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			md.renderPage(md.prevPC-window/2),
			"   "+strings.ReplaceAll(md.status(), "\n", "\n   "),
		),
		"",
		spew.Sdump(md.m.Memory.Read(md.prevPC)),
	)
}

// Debug starts an interactive stepper over w, already loaded into m.
func Debug(m *mars.Mars, w *vm.Warrior) {
	threads := w.Threads()
	start := 0
	if len(threads) > 0 {
		start = threads[0]
	}
	result, err := tea.NewProgram(model{m: m, warrior: w, prevPC: start}).Run()
	if err != nil {
		glog.Fatalf("marsdebug: %v", err)
	}
	if final, ok := result.(model); ok && final.err != nil {
		fmt.Println("stopped:", final.err)
	}
}
