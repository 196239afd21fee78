package models

// OutcomeKind is the classification of a per-file scan
type OutcomeKind int

const (
	OutcomeClean OutcomeKind = iota
	OutcomeMatched
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMatched:
		return "matched"
	case OutcomeFailed:
		return "failed"
	default:
		return "clean"
	}
}

// FileOutcome is produced exactly once per candidate file
type FileOutcome struct {
	Path  string
	Kind  OutcomeKind
	Lines []ErrorLine
	Large bool
	Err   error
}

// NewOutcome builds the outcome for a scan result and its error
func NewOutcome(path string, scan *FileScan, err error) FileOutcome {
	out := FileOutcome{Path: path}
	if scan != nil {
		out.Large = scan.Large
	}

	switch {
	case err != nil:
		out.Kind = OutcomeFailed
		out.Err = err
	case scan != nil && len(scan.Lines) > 0:
		out.Kind = OutcomeMatched
		out.Lines = scan.Lines
	default:
		out.Kind = OutcomeClean
	}
	return out
}
