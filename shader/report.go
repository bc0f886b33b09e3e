package shader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// reporter writes failure reports for people reading a terminal.
type reporter struct {
	w   io.Writer
	out *termenv.Output
}

func newReporter(w io.Writer) *reporter {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		profile = termenv.EnvColorProfile()
	}

	return &reporter{
		w:   w,
		out: termenv.NewOutput(w, termenv.WithProfile(profile)),
	}
}

func (r *reporter) compileFailed(s *Shader) {
	title := fmt.Sprintf("%v shader failed to compile", s.Stage)
	if s.Name != "" {
		title = fmt.Sprintf("%v shader %v failed to compile", s.Stage, s.Name)
	}
	r.report(title, s.Log)
}

func (r *reporter) linkFailed(p *Program) {
	r.report(fmt.Sprintf("program %d failed to link", p.Handle), p.Log)
}

func (r *reporter) report(title, log string) {
	header := r.out.String(title + ":").Foreground(r.out.Color("1")).Bold()
	fmt.Fprintln(r.w, header)

	log = strings.TrimRight(log, "\n")
	if log == "" {
		log = "(driver returned no log)"
	}
	for _, line := range strings.Split(log, "\n") {
		fmt.Fprintf(r.w, "    %s\n", line)
	}
}
