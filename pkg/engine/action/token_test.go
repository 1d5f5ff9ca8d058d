package action

import (
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		token Token
		wire  string
	}{
		{"invite count", Token{Kind: KindSetInviteCount, Count: 3}, "set_invitation_count_3"},
		{"invite all", Token{Kind: KindSetInviteCount, All: true}, "set_invitation_count_all"},
		{"select candidate", Token{Kind: KindSelectCandidate, Index: 2}, "select_candidate_2"},
		{"set date", Token{Kind: KindSetDate, Date: "2026-09-01", Time: "10:00"}, "set_date_2026-09-01_10:00"},
		{"set location", Token{Kind: KindSetLocation, Location: "visio"}, "set_location_visio"},
		{"contract candidate", Token{Kind: KindSelectContractCandidate, Index: 1}, "select_candidate_for_contract_1"},
		{"resume contract", Token{Kind: KindResumeContract, ContractType: "CDI", Index: 0}, "select_for_contract_contract_cdi_0"},
		{"contract type", Token{Kind: KindContractType, ContractType: "Stage"}, "contract_stage"},
		{"salary", Token{Kind: KindSetSalary, ContractType: "CDI", Salary: 45000}, "set_salary_CDI_45000"},
		{"contract start", Token{Kind: KindSetContractStart, ContractType: "CDD", Date: "2026-10-01"}, "set_contract_start_CDD_2026-10-01"},
		{"contract end", Token{Kind: KindSetContractEnd, ContractType: "CDD", Date: "2027-04-01"}, "set_contract_end_CDD_2027-04-01"},
		{"bare execute search", Token{Kind: KindExecuteSearch}, "execute_search"},
		{"bare sync", Token{Kind: KindSyncNow}, "sync_now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.token.Encode()
			if got != tt.wire {
				t.Fatalf("Encode() = %q, want %q", got, tt.wire)
			}

			decoded, err := Decode(got)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", got, err)
			}
			if decoded.Kind != tt.token.Kind {
				t.Errorf("Decode(%q) Kind = %q, want %q", got, decoded.Kind, tt.token.Kind)
			}
			if decoded.Index != tt.token.Index || decoded.Count != tt.token.Count || decoded.All != tt.token.All {
				t.Errorf("Decode(%q) payload = %+v, want %+v", got, decoded, tt.token)
			}
			if decoded.ContractType != tt.token.ContractType || decoded.Salary != tt.token.Salary {
				t.Errorf("Decode(%q) contract payload = %+v, want %+v", got, decoded, tt.token)
			}
			if decoded.Date != tt.token.Date || decoded.Time != tt.token.Time || decoded.Location != tt.token.Location {
				t.Errorf("Decode(%q) schedule payload = %+v, want %+v", got, decoded, tt.token)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	malformed := []string{
		"set_invitation_count_zero",
		"set_invitation_count_0",
		"select_candidate_abc",
		"select_candidate_-1",
		"select_for_contract_contract_cdi",
		"select_for_contract_contract_permanent_0",
		"set_salary_CDI_abc",
		"set_salary_CDI_-100",
		"contract_permanent",
		"does_not_exist",
		"",
	}

	for _, raw := range malformed {
		if _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) expected error, got none", raw)
		}
	}
}

func TestDecodePromptVerbsRouteToHelp(t *testing.T) {
	for _, raw := range []string{"search_candidates", "cancel", "view_details", "confirm_send"} {
		token, err := Decode(raw)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", raw, err)
		}
		if token.Kind != KindHelp {
			t.Errorf("Decode(%q) Kind = %q, want %q", raw, token.Kind, KindHelp)
		}
	}
}
