package intent

import (
	"strings"
)

// Intent labels for a free-text user turn.
const (
	Greeting         = "greeting"
	SearchCandidates = "search_candidates"
	ViewCandidates   = "view_candidates"
	SendInvitation   = "send_invitation"
	GenerateContract = "generate_contract"
	SyncEmails       = "sync_emails"
	ViewStats        = "view_stats"
	LinkedInPost     = "linkedin_post"
	Help             = "help"
	Unknown          = "unknown"
)

const (
	// MatchedConfidence is reported whenever any keyword hits.
	MatchedConfidence = 0.75
	// UnknownConfidence is reported when nothing matches.
	UnknownConfidence = 0.20
)

// keywordSet binds one intent to its trigger substrings. The slice order is
// the tie-break: the first intent with any hit wins, so this must stay a
// slice, not a map.
type keywordSet struct {
	intent   string
	keywords []string
}

var intentKeywords = []keywordSet{
	{Greeting, []string{"bonjour", "salut", "hello", "hey", "coucou"}},
	{SearchCandidates, []string{
		"recherche", "cherche", "candidat", "talent", "profil", "trouve", "trouver",
		"développeur", "developpeur", "ingénieur", "ingenieur", "compétence", "competence",
		"veux", "besoin", "recrute", "recrutement", "médecin", "medecin",
	}},
	{ViewCandidates, []string{"liste", "voir", "candidats"}},
	{SendInvitation, []string{"invite", "inviter", "entretien", "email"}},
	{GenerateContract, []string{"contrat", "cdi", "cdd", "stage", "freelance"}},
	{SyncEmails, []string{"sync", "synchronise", "email", "imap"}},
	{ViewStats, []string{"stat", "dashboard", "analyse"}},
	{LinkedInPost, []string{"linkedin", "publier", "post"}},
	{Help, []string{"aide", "help", "comment"}},
}

// Classify maps a free-text message to an intent label and a confidence
// score. Matching is a case-insensitive substring scan against the declared
// keyword sets in declaration order; deterministic, no learning.
func Classify(message string) (string, float64) {
	lower := strings.ToLower(message)
	for _, set := range intentKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.intent, MatchedConfidence
			}
		}
	}
	return Unknown, UnknownConfidence
}
