package interp

// Cell is a single mutable slot holding one runtime value. Reference
// parameters work by sharing a *Cell between the caller's variable and the
// callee's parameter; everything else gets its own cell.
type Cell struct {
	Value Value
}

// Environment is a mapping from variable name to a stack of cells, plus a
// stack of scope frames recording which names each frame introduced.
// Popping a frame pops exactly one cell per name it introduced, restoring
// any shadowed binding underneath.
type Environment struct {
	vars   map[string][]*Cell
	frames [][]string
}

// NewEnvironment creates an empty environment with no open frames.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string][]*Cell)}
}

// PushFrame opens a new scope frame.
func (e *Environment) PushFrame() {
	e.frames = append(e.frames, nil)
}

// PopFrame closes the innermost scope frame, popping one cell for every
// name it introduced and removing the name entirely once its stack empties.
func (e *Environment) PopFrame() {
	i := len(e.frames) - 1
	names := e.frames[i]
	e.frames = e.frames[:i]

	for _, name := range names {
		stack := e.vars[name]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			delete(e.vars, name)
		} else {
			e.vars[name] = stack
		}
	}
}

// FrameDepth reports how many scope frames are currently open.
func (e *Environment) FrameDepth() int {
	return len(e.frames)
}

// Get returns the live binding for name, if any.
func (e *Environment) Get(name string) (*Cell, bool) {
	stack, ok := e.vars[name]
	if !ok || len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// PushCell introduces name in the innermost frame, backed by cell. Used
// both for fresh bindings and for aliasing a caller's cell into a
// reference parameter.
func (e *Environment) PushCell(name string, cell *Cell) {
	e.vars[name] = append(e.vars[name], cell)
	i := len(e.frames) - 1
	e.frames[i] = append(e.frames[i], name)
}

// Assign implements the language's assignment rule: if name has a live
// binding, overwrite its top cell in place; otherwise introduce a fresh
// binding in the current innermost frame.
func (e *Environment) Assign(name string, value Value) {
	if cell, ok := e.Get(name); ok {
		cell.Value = value
		return
	}
	e.PushCell(name, &Cell{Value: value})
}

// Snapshot captures the current top-cell value of every live variable, for
// lambda capture. Each returned value has already been through Copy.
func (e *Environment) Snapshot() map[string]Value {
	captures := make(map[string]Value, len(e.vars))
	for name, stack := range e.vars {
		if len(stack) == 0 {
			continue
		}
		captures[name] = stack[len(stack)-1].Value.Copy()
	}
	return captures
}
