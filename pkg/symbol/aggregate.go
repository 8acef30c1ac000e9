package symbol

// Aggregator combines the per-file results of one scan pass into a single
// mapping.  Collisions are recorded, never fatal: the last file added wins.
type Aggregator struct {
	symbols map[Name]string
	errors  ErrorLog
}

// NewAggregator constructs an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		symbols: make(map[Name]string),
	}
}

// Add records the names declared by the file at path.
func (a *Aggregator) Add(path string, names []Name) {
	for _, name := range names {
		if prev, ok := a.symbols[name]; ok && prev != path {
			a.errors.Add(&DuplicateSymbolError{
				Name:  name,
				Paths: [2]string{prev, path},
			})
		}
		a.symbols[name] = path
	}
}

// AddError records a non-symbol diagnostic (such as an unreadable file)
// against this pass.
func (a *Aggregator) AddError(err error) {
	a.errors.Add(err)
}

// Result returns the aggregated mapping and the errors of the pass.
func (a *Aggregator) Result() (map[Name]string, ErrorLog) {
	return a.symbols, a.errors
}
