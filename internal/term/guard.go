// Package term guards the terminal session around a Bubble Tea program.
//
// A TUI that panics while the terminal is in raw mode and the alternate
// screen leaves the user's shell unusable and the panic message
// invisible. Guard makes sure the terminal is handed back before any
// diagnostics are printed, on every exit path.
package term

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

// Guard wraps a program run so the terminal is always released before
// the process reports anything.
type Guard struct {
	run     func() error
	release func() error
	stderr  io.Writer

	once sync.Once
}

// NewGuard builds a guard around a constructed tea.Program. The program
// restores the terminal itself on a clean return; the guard's release
// is the fallback for the paths where it never gets to.
func NewGuard(p *tea.Program) *Guard {
	return &Guard{
		run: func() error {
			_, err := p.Run()
			return err
		},
		release: func() error {
			out := termenv.NewOutput(os.Stdout)
			out.ExitAltScreen()
			out.ShowCursor()
			out.Reset()
			return nil
		},
		stderr: os.Stderr,
	}
}

// Run executes the program. A panic inside the program is recovered,
// the terminal is released, and only then is the panic printed with its
// stack, returned as an error so main can exit non-zero.
func (g *Guard) Run() (err error) {
	defer func() {
		r := recover()
		relErr := g.doRelease()
		if r != nil {
			fmt.Fprintf(g.stderr, "panic: %v\n\n%s", r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
			return
		}
		if relErr != nil {
			fmt.Fprintf(g.stderr, "terminal restore failed: %v\n", relErr)
			if err == nil {
				err = relErr
			}
		}
	}()

	err = g.run()
	return err
}

// doRelease runs the release exactly once, however many exit paths
// reach it.
func (g *Guard) doRelease() error {
	var err error
	g.once.Do(func() {
		if g.release != nil {
			err = g.release()
		}
	})
	return err
}
