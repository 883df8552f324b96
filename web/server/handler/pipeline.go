package handler

// Pipeline assembles stages written in either style into a single Handler.
// It provides a fluent interface, and stages run in the order they were added.
type Pipeline struct {
	bridge *Bridge
	stages []Handler
}

// NewPipeline creates a new empty pipeline. The bridge is used to convert the
// stages added with HandleJob, and may be nil if there are none.
func NewPipeline(b *Bridge) *Pipeline {
	return &Pipeline{bridge: b}
}

// Handle adds one or more stages to the pipeline.
func (p *Pipeline) Handle(h ...Handler) *Pipeline {
	p.stages = append(p.stages, h...)
	return p
}

// HandleJob adds one or more JobHandler stages to the pipeline.
func (p *Pipeline) HandleJob(h ...JobHandler) *Pipeline {
	if p.bridge == nil {
		panic("pipeline has no bridge to convert job handlers with")
	}
	for _, jh := range h {
		p.stages = append(p.stages, p.bridge.LowerHandler(jh))
	}
	return p
}

// Build returns the Handler running all stages of the pipeline in order.
func (p *Pipeline) Build() Handler {
	stages := make([]Handler, len(p.stages))
	copy(stages, p.stages)
	return Chain(stages...)
}
