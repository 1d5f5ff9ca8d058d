package intent

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		wantIntent     string
		wantConfidence float64
	}{
		{
			name:           "greeting",
			message:        "Bonjour !",
			wantIntent:     Greeting,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "greeting case insensitive",
			message:        "SALUT tout le monde",
			wantIntent:     Greeting,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "search by role keyword",
			message:        "Je cherche 3 développeurs Python",
			wantIntent:     SearchCandidates,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "search wins over invitation on tie order",
			message:        "trouve des candidats pour un entretien",
			wantIntent:     SearchCandidates,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "invitation",
			message:        "envoie un entretien",
			wantIntent:     SendInvitation,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "contract via cdd",
			message:        "génère un CDD",
			wantIntent:     GenerateContract,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "sync",
			message:        "synchronise la boîte mail",
			wantIntent:     SyncEmails,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "linkedin",
			message:        "publie sur linkedin",
			wantIntent:     LinkedInPost,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "help",
			message:        "aide moi",
			wantIntent:     Help,
			wantConfidence: MatchedConfidence,
		},
		{
			name:           "unknown",
			message:        "azerty qwerty",
			wantIntent:     Unknown,
			wantConfidence: UnknownConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIntent, gotConfidence := Classify(tt.message)
			if gotIntent != tt.wantIntent {
				t.Errorf("Classify(%q) intent = %q, want %q", tt.message, gotIntent, tt.wantIntent)
			}
			if gotConfidence != tt.wantConfidence {
				t.Errorf("Classify(%q) confidence = %v, want %v", tt.message, gotConfidence, tt.wantConfidence)
			}
		})
	}
}
