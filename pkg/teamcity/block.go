package teamcity

import "github.com/fatih/color"

// Block is an open log region bracketing one phase of a run. End closes
// it; calling End from a defer guarantees the blockClosed message is
// emitted on every exit path, including failures.
type Block struct {
	log  *Logger
	name string
	done bool
}

// StartBlock opens a named log region and returns its handle.
func (l *Logger) StartBlock(name, description string) *Block {
	if l.plain {
		l.plainLine(color.New(color.FgCyan, color.Bold), "--- "+name+": "+description)
	} else {
		l.emit("blockOpened", map[string]string{"name": name, "description": description})
	}
	return &Block{log: l, name: name}
}

// End emits the blockClosed message. Further calls are no-ops, so End
// may be both deferred and called early on the success path.
func (b *Block) End() {
	if b == nil || b.done {
		return
	}
	b.done = true
	if b.log.plain {
		b.log.plainLine(color.New(color.FgCyan, color.Bold), "--- end "+b.name)
		return
	}
	b.log.emit("blockClosed", map[string]string{"name": b.name})
}
