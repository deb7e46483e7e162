package domain

// Command describes one invocation of the external simulator tool: a
// subcommand name plus its arguments in the exact order the tool's parser
// expects. Values are built by the catalog in adapter/simctl; the executor
// only renders them into an argument vector.
type Command struct {
	Name string            // subcommand, e.g. "list", "boot", "recordVideo"
	Args []string          // positional/flag arguments, order preserved
	Env  map[string]string // environment overrides merged onto the ambient env
}

// Argv renders the command into the argument vector passed to the tool:
// the subcommand name followed by the arguments, unmodified.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Name)
	argv = append(argv, c.Args...)
	return argv
}

// String returns the rendered invocation for logging.
func (c Command) String() string {
	out := c.Name
	for _, a := range c.Args {
		out += " " + a
	}
	return out
}
