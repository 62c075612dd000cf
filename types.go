package breakfilter

// VariableProvider supplies the five context values a filter expression may
// reference. The breakpoint subsystem passes a fresh provider on every
// evaluation so values always reflect the thread that hit the breakpoint.
type VariableProvider interface {
	MachineName() string
	ProcessID() int
	ProcessName() string
	ThreadID() int
	ThreadName() string
}

// Variables is a plain-value VariableProvider.
type Variables struct {
	Machine string
	PID     int
	Process string
	TID     int
	Thread  string
}

func (v Variables) MachineName() string { return v.Machine }
func (v Variables) ProcessID() int      { return v.PID }
func (v Variables) ProcessName() string { return v.Process }
func (v Variables) ThreadID() int       { return v.TID }
func (v Variables) ThreadName() string  { return v.Thread }

// Program is a compiled filter predicate ready to run against a set of
// context variables.
type Program interface {
	Run(vars VariableProvider) (bool, error)
}

// Compiler turns filter expression text into runnable programs. Expressions
// see exactly five identifiers: MachineName, ProcessId, ProcessName,
// ThreadId, ThreadName.
type Compiler interface {
	// Compile parses, checks, and compiles expression into a Program.
	Compile(expression string) (Program, error)
	// Validate runs the compile pipeline and discards the program. For the
	// same invalid input it reports the same diagnostic Compile would.
	Validate(expression string) error
	// Engine labels the backend in log and error output. Wrappers should
	// delegate so the label survives decoration.
	Engine() string
}
