package pixfx

import "github.com/hajimehoshi/ebiten/v2"

// UniformLocations maps a filter's logical uniform names to the Kage
// uniform variables of one compiled program.
type UniformLocations map[string]string

// Program is a compiled filter shader with its uniform bindings. Bindings and
// the uniform value map belong to the program, not to a filter instance, so
// two filters of the same type share them.
type Program struct {
	Shader    *ebiten.Shader
	Locations UniformLocations
	uniforms  map[string]any
}

// Uniforms returns the reusable uniform value map for draws with p.
func (p *Program) Uniforms() map[string]any {
	return p.uniforms
}

type programKey struct {
	filter FilterType
	source string
}

// ProgramCache holds compiled programs keyed by filter type and fragment
// source. Not safe for concurrent use.
type ProgramCache struct {
	programs map[programKey]*Program
}

// NewProgramCache returns an empty cache.
func NewProgramCache() *ProgramCache {
	return &ProgramCache{programs: make(map[programKey]*Program)}
}

// Len returns the number of compiled programs.
func (c *ProgramCache) Len() int {
	return len(c.programs)
}

// Lookup returns the program for f if it has been compiled.
func (c *ProgramCache) Lookup(f GPUFilter) (*Program, bool) {
	p, ok := c.programs[programKey{f.Type(), f.FragmentSource()}]
	return p, ok
}

// Get returns the program for f, compiling it and querying its uniform
// locations on first use.
func (c *ProgramCache) Get(ctx GPUContext, f GPUFilter) (*Program, error) {
	key := programKey{f.Type(), f.FragmentSource()}
	if p, ok := c.programs[key]; ok {
		return p, nil
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	shader, err := ctx.NewProgram([]byte(key.source))
	if err != nil {
		return nil, &ResourceAllocationError{Resource: "program " + f.Type().String(), Err: err}
	}
	p := &Program{Shader: shader}
	p.Locations = f.UniformLocations(ctx, p)
	p.uniforms = make(map[string]any, len(p.Locations))
	c.programs[key] = p
	logger.Debug("pixfx: program compiled", "filter", f.Type(), "uniforms", len(p.Locations))
	return p, nil
}

// Dispose releases every compiled shader through ctx.
func (c *ProgramCache) Dispose(ctx GPUContext) {
	for key, p := range c.programs {
		if ctx != nil && p.Shader != nil {
			ctx.DeleteProgram(p.Shader)
		}
		delete(c.programs, key)
	}
}
