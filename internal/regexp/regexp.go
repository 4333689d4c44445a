package regexp

// Regexp is a compiled pattern plus the flags the engine's RegExp object
// needs to expose (source, global, ignoreCase, multiline) and the
// mutable lastIndex the 'g' flag persists across exec/test calls,
// mirroring how spec.md §4.5 describes RegExp flag storage.
type Regexp struct {
	Program *Program
	Source  string
	Flags   string
	Global  bool

	LastIndex int
}

// New compiles pattern/flags into a ready-to-use Regexp.
func New(pattern, flags string) (*Regexp, error) {
	prog, err := Compile(pattern, flags)
	if err != nil {
		return nil, err
	}
	global := false
	for _, f := range flags {
		if f == 'g' {
			global = true
		}
	}
	return &Regexp{Program: prog, Source: pattern, Flags: flags, Global: global}, nil
}

// Find returns the leftmost match at or after from, or nil.
func (r *Regexp) Find(input []byte, from int) *Match {
	if from > len(input) {
		return nil
	}
	return Exec(r.Program, input, from)
}

// FindAll returns every non-overlapping match, advancing past a
// zero-length match by one byte to guarantee termination.
func (r *Regexp) FindAll(input []byte) []*Match {
	var out []*Match
	pos := 0
	for pos <= len(input) {
		m := r.Find(input, pos)
		if m == nil {
			break
		}
		out = append(out, m)
		if m.End == m.Start {
			pos = m.End + 1
		} else {
			pos = m.End
		}
	}
	return out
}
