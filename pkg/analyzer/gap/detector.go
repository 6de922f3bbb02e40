package gap

import "github.com/probeworks/gapscan/pkg/syntax"

// Detector is one pattern detector. Detectors are pure: they read a
// normalized tree and emit findings without severity (the classifier
// assigns it) and without touching shared state, so they run safely in
// parallel across files.
type Detector interface {
	Name() string
	Detect(tree *syntax.Tree) []Finding
}
