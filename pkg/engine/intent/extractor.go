package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// Params carries the structured slots extracted from one message. Absent
// slots stay nil/empty so merging never clobbers existing context values.
type Params struct {
	NumCandidates  *int
	JobDescription string
	ContractType   string
}

var firstNumber = regexp.MustCompile(`(\d+)`)

// DefaultNumCandidates is used when a search request names no count.
const DefaultNumCandidates = 4

// contractTypes in priority order: the first literal found in the message
// wins ("cdi" before "cdd" before "stage" before "freelance").
var contractTypes = []struct {
	literal string
	label   string
}{
	{"cdi", "CDI"},
	{"cdd", "CDD"},
	{"stage", "Stage"},
	{"freelance", "Freelance"},
}

// Extract pulls intent-conditioned parameters out of the raw message.
// The job description is stored verbatim: downstream matching receives the
// full sentence, not a normalized fragment.
func Extract(message, intentLabel string) Params {
	var p Params
	switch intentLabel {
	case SearchCandidates:
		n := DefaultNumCandidates
		if m := firstNumber.FindString(message); m != "" {
			if v, err := strconv.Atoi(m); err == nil {
				n = v
			}
		}
		p.NumCandidates = &n
		p.JobDescription = message
	case GenerateContract:
		lower := strings.ToLower(message)
		for _, ct := range contractTypes {
			if strings.Contains(lower, ct.literal) {
				p.ContractType = ct.label
				break
			}
		}
	}
	return p
}
