package matprop

import (
	"fmt"
	"os"
	"time"
)

// stepStats holds per-step timing and injection metrics.
// Only populated when Scene.debug is true.
type stepStats struct {
	tweenTime   time.Duration
	rebuildTime time.Duration
	resolveTime time.Duration
	injectTime  time.Duration
	hosts       int
	resolved    int
	injections  int
}

// debugLog prints timing and injection stats to stderr.
func (s *Scene) debugLog(stats stepStats) {
	if !s.debug {
		return
	}
	total := stats.tweenTime + stats.rebuildTime + stats.resolveTime + stats.injectTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[matprop] tween: %v | rebuild: %v | resolve: %v | inject: %v | total: %v\n",
		stats.tweenTime, stats.rebuildTime, stats.resolveTime, stats.injectTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[matprop] hosts: %d | resolved: %d | injections: %d | cached materials: %d\n",
		stats.hosts, stats.resolved, stats.injections, s.cache.Len())
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("matprop debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[matprop] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[matprop] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
