package device

import (
	"fmt"
	"regexp"
	"strings"
)

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Entry is a kernel entry point declared in a Program. LocalWords is the
// largest group-local allocation, in 32-bit words, the entry may request.
type Entry struct {
	Name       string
	LocalWords int

	program *Program
}

// Built reports whether the entry belongs to a successfully built program.
func (e *Entry) Built() bool {
	return e != nil && e.program != nil && e.program.built
}

// Program is a set of kernel entry points compiled for one context.
type Program struct {
	ctx     *Context
	entries []*Entry
	built   bool
	log     string
}

// NewProgram creates an empty program on ctx.
func NewProgram(ctx *Context) *Program {
	return &Program{ctx: ctx}
}

// Declare adds an entry point to the program. It must be called before Build.
func (p *Program) Declare(name string, localWords int) *Entry {
	e := &Entry{Name: name, LocalWords: localWords, program: p}
	p.entries = append(p.entries, e)
	return e
}

// Build checks every entry against the device. On failure the returned
// *BuildError carries the diagnostics, also available from BuildLog.
func (p *Program) Build() error {
	if p.ctx == nil {
		return deviceError("build program", StatusInvalidContext, "nil context")
	}
	if len(p.entries) == 0 {
		return deviceError("build program", StatusInvalidValue, "program has no kernels")
	}

	var (
		failed []string
		log    strings.Builder
		seen   = make(map[string]bool)
		limit  = p.ctx.device.LocalMemSize
	)
	report := func(e *Entry, format string, args ...interface{}) {
		failed = append(failed, e.Name)
		fmt.Fprintf(&log, "%s: error: %s\n", e.Name, fmt.Sprintf(format, args...))
	}
	for _, e := range p.entries {
		switch {
		case !identRegexp.MatchString(e.Name):
			report(e, "invalid kernel name %q", e.Name)
		case seen[e.Name]:
			report(e, "redefinition of kernel %q", e.Name)
		case e.LocalWords < 0:
			report(e, "negative local memory request")
		case e.LocalWords*4 > limit:
			report(e, "local memory request of %d bytes exceeds device limit of %d bytes", e.LocalWords*4, limit)
		}
		seen[e.Name] = true
	}

	p.log = log.String()
	if len(failed) > 0 {
		return &BuildError{Kernels: failed, Log: p.log}
	}
	p.built = true
	return nil
}

// BuildLog returns the diagnostics of the last Build.
func (p *Program) BuildLog() string {
	return p.log
}

// Kernel is an entry point with its arguments bound.
type Kernel struct {
	entry      *Entry
	localWords int
	run        func(g *Group) error
}

// NewKernel binds run to a built entry point. run is called once per
// work-group; localWords of group-local scratch are handed to each group.
func NewKernel(e *Entry, localWords int, run func(g *Group) error) (*Kernel, error) {
	if !e.Built() {
		name := "<nil>"
		if e != nil {
			name = e.Name
		}
		return nil, execError("create kernel", StatusInvalidProgramExecutable, "kernel %s: program not built", name)
	}
	if run == nil {
		return nil, execError("create kernel", StatusInvalidKernel, "kernel %s: no entry point", e.Name)
	}
	if localWords < 0 || localWords > e.LocalWords {
		return nil, execError("create kernel", StatusInvalidKernelArgs,
			"kernel %s: local memory of %d words, declared at most %d", e.Name, localWords, e.LocalWords)
	}
	return &Kernel{entry: e, localWords: localWords, run: run}, nil
}

// Name returns the entry point name.
func (k *Kernel) Name() string {
	return k.entry.Name
}

// ArgError reports an invalid kernel argument.
func ArgError(kernel, format string, args ...interface{}) error {
	return execError("set kernel arg", StatusInvalidKernelArgs, "kernel %s: %s", kernel, fmt.Sprintf(format, args...))
}
