// Package action defines the closed set of state transitions the dialogue
// engine understands. A Token is a tagged variant with typed payload fields;
// it encodes to an opaque string that survives a round trip through a UI
// button and comes back unchanged on the next turn.
package action

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind string

// Parameterized transitions.
const (
	KindSetInviteCount          Kind = "set_invitation_count"
	KindSelectCandidate         Kind = "select_candidate"
	KindSetDate                 Kind = "set_date"
	KindSetLocation             Kind = "set_location"
	KindSelectContractCandidate Kind = "select_candidate_for_contract"
	KindResumeContract          Kind = "select_for_contract"
	KindContractType            Kind = "contract"
	KindSetSalary               Kind = "set_salary"
	KindSetContractStart        Kind = "set_contract_start"
	KindSetContractEnd          Kind = "set_contract_end"
)

// Bare transitions (no payload). The Kind doubles as the wire string.
const (
	KindExecuteSearch       Kind = "execute_search"
	KindSendInvitations     Kind = "send_invitations"
	KindSyncNow             Kind = "sync_now"
	KindPublishLinkedInJob  Kind = "publish_linkedin_job"
	KindCustomizePost       Kind = "customize_linkedin_post"
	KindNewSearch           Kind = "new_search"
	KindLinkedInLogin       Kind = "linkedin_oauth_login"
	KindViewDraft           Kind = "view_draft"
	KindStartContract       Kind = "start_contract_generation"
	KindEnterCandidateName  Kind = "enter_candidate_name"
	KindCancelCandidateName Kind = "cancel_candidate_entry"
	KindGenerateContractNow Kind = "generate_contract_now"
	KindHelp                Kind = "help"
	KindAcknowledge         Kind = "acknowledge"
)

// bareKinds are the verbs Decode accepts without payload. Suggested-action
// verbs the UI may echo back (search_candidates, cancel, ...) are accepted
// too and answered with the help transition by the dispatcher.
var bareKinds = map[Kind]bool{
	KindExecuteSearch:       true,
	KindSendInvitations:     true,
	KindSyncNow:             true,
	KindPublishLinkedInJob:  true,
	KindCustomizePost:       true,
	KindNewSearch:           true,
	KindLinkedInLogin:       true,
	KindViewDraft:           true,
	KindStartContract:       true,
	KindEnterCandidateName:  true,
	KindCancelCandidateName: true,
	KindGenerateContractNow: true,
	KindHelp:                true,
	KindAcknowledge:         true,
}

// promptVerbs are intent-suggestion echoes with no transition of their own.
var promptVerbs = map[string]bool{
	"search_candidates": true,
	"modify_search":     true,
	"cancel":            true,
	"add_favorite":      true,
	"view_details":      true,
	"schedule_date":     true,
	"confirm_send":      true,
	"view_stats":        true,
	"sync_emails":       true,
	"linkedin_post":     true,
	"config_email":      true,
	"save_draft":        true,
	"edit_post":         true,
	"publish_now":       true,
	"linkedin_get_token": true,
}

// Token is one requested transition plus its payload. Only the fields
// relevant to the Kind are set.
type Token struct {
	Kind Kind

	Index        int    // candidate index for select_* kinds
	Count        int    // invite count for set_invitation_count
	All          bool   // "invite everyone" variant of set_invitation_count
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	Location     string // bureau | visio | cafe | custom
	ContractType string // CDI | CDD | Stage | Freelance
	Salary       int
}

var contractLabels = map[string]string{
	"cdi":       "CDI",
	"cdd":       "CDD",
	"stage":     "Stage",
	"freelance": "Freelance",
}

// Encode serializes the token into its wire string.
func (t Token) Encode() string {
	switch t.Kind {
	case KindSetInviteCount:
		if t.All {
			return "set_invitation_count_all"
		}
		return fmt.Sprintf("set_invitation_count_%d", t.Count)
	case KindSelectCandidate:
		return fmt.Sprintf("select_candidate_%d", t.Index)
	case KindSetDate:
		return fmt.Sprintf("set_date_%s_%s", t.Date, t.Time)
	case KindSetLocation:
		return "set_location_" + t.Location
	case KindSelectContractCandidate:
		return fmt.Sprintf("select_candidate_for_contract_%d", t.Index)
	case KindResumeContract:
		return fmt.Sprintf("select_for_contract_contract_%s_%d", strings.ToLower(t.ContractType), t.Index)
	case KindContractType:
		return "contract_" + strings.ToLower(t.ContractType)
	case KindSetSalary:
		return fmt.Sprintf("set_salary_%s_%d", t.ContractType, t.Salary)
	case KindSetContractStart:
		return fmt.Sprintf("set_contract_start_%s_%s", t.ContractType, t.Date)
	case KindSetContractEnd:
		return fmt.Sprintf("set_contract_end_%s_%s", t.ContractType, t.Date)
	default:
		return string(t.Kind)
	}
}

// Decode parses a wire string back into a typed token. Prefixed forms are
// tried first, then bare verbs. A string that matches a known prefix but
// carries a malformed payload is an error; the dispatcher reports it as an
// input error without touching session state.
func Decode(raw string) (Token, error) {
	switch {
	case strings.HasPrefix(raw, "set_invitation_count_"):
		arg := strings.TrimPrefix(raw, "set_invitation_count_")
		if arg == "all" {
			return Token{Kind: KindSetInviteCount, All: true}, nil
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return Token{}, fmt.Errorf("invalid invitation count %q", arg)
		}
		return Token{Kind: KindSetInviteCount, Count: n}, nil

	case strings.HasPrefix(raw, "select_candidate_for_contract_"):
		idx, err := strconv.Atoi(strings.TrimPrefix(raw, "select_candidate_for_contract_"))
		if err != nil || idx < 0 {
			return Token{}, fmt.Errorf("invalid contract candidate index in %q", raw)
		}
		return Token{Kind: KindSelectContractCandidate, Index: idx}, nil

	case strings.HasPrefix(raw, "select_for_contract_"):
		// select_for_contract_contract_<type>_<idx>
		rest := strings.TrimPrefix(raw, "select_for_contract_contract_")
		parts := strings.Split(rest, "_")
		if len(parts) != 2 {
			return Token{}, fmt.Errorf("malformed contract resume token %q", raw)
		}
		label, ok := contractLabels[parts[0]]
		if !ok {
			return Token{}, fmt.Errorf("unknown contract type %q", parts[0])
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 {
			return Token{}, fmt.Errorf("invalid candidate index in %q", raw)
		}
		return Token{Kind: KindResumeContract, ContractType: label, Index: idx}, nil

	case strings.HasPrefix(raw, "select_candidate_"):
		idx, err := strconv.Atoi(strings.TrimPrefix(raw, "select_candidate_"))
		if err != nil || idx < 0 {
			return Token{}, fmt.Errorf("invalid candidate index in %q", raw)
		}
		return Token{Kind: KindSelectCandidate, Index: idx}, nil

	case strings.HasPrefix(raw, "set_date_"):
		// set_date_<YYYY-MM-DD>_<HH:MM>
		rest := strings.TrimPrefix(raw, "set_date_")
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) != 2 {
			return Token{}, fmt.Errorf("malformed date token %q", raw)
		}
		return Token{Kind: KindSetDate, Date: parts[0], Time: parts[1]}, nil

	case strings.HasPrefix(raw, "set_location_"):
		return Token{Kind: KindSetLocation, Location: strings.TrimPrefix(raw, "set_location_")}, nil

	case strings.HasPrefix(raw, "set_salary_"):
		rest := strings.TrimPrefix(raw, "set_salary_")
		parts := strings.Split(rest, "_")
		if len(parts) != 2 {
			return Token{}, fmt.Errorf("malformed salary token %q", raw)
		}
		salary, err := strconv.Atoi(parts[1])
		if err != nil || salary <= 0 {
			return Token{}, fmt.Errorf("invalid salary in %q", raw)
		}
		return Token{Kind: KindSetSalary, ContractType: parts[0], Salary: salary}, nil

	case strings.HasPrefix(raw, "set_contract_start_"):
		rest := strings.TrimPrefix(raw, "set_contract_start_")
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) != 2 {
			return Token{}, fmt.Errorf("malformed contract start token %q", raw)
		}
		return Token{Kind: KindSetContractStart, ContractType: parts[0], Date: parts[1]}, nil

	case strings.HasPrefix(raw, "set_contract_end_"):
		rest := strings.TrimPrefix(raw, "set_contract_end_")
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) != 2 {
			return Token{}, fmt.Errorf("malformed contract end token %q", raw)
		}
		return Token{Kind: KindSetContractEnd, ContractType: parts[0], Date: parts[1]}, nil

	case strings.HasPrefix(raw, "contract_"):
		label, ok := contractLabels[strings.TrimPrefix(raw, "contract_")]
		if !ok {
			return Token{}, fmt.Errorf("unknown contract type token %q", raw)
		}
		return Token{Kind: KindContractType, ContractType: label}, nil
	}

	if bareKinds[Kind(raw)] {
		return Token{Kind: Kind(raw)}, nil
	}
	if promptVerbs[raw] {
		// Suggestion echoes route to the help transition.
		return Token{Kind: KindHelp}, nil
	}
	return Token{}, fmt.Errorf("unknown action token %q", raw)
}
