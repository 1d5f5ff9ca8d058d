package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/store"
)

// HandleNameInput treats a free-text turn as a candidate name and looks it up
// in the directory. Matching is a lowercase substring of "last first", or all
// typed words present individually; accents are kept as typed.
func (d *Dispatcher) HandleNameInput(ctx context.Context, text string, session *store.Session) *ActionResult {
	query := strings.ToLower(strings.TrimSpace(text))
	if query == "" {
		return d.enterCandidateName(session)
	}

	pool, err := d.directory.All(ctx)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Erreur lors de la recherche : %v", err))
	}

	words := strings.Fields(query)
	var found []store.Candidate
	for _, cand := range pool {
		full := strings.ToLower(cand.LastName + " " + cand.FirstName)
		if strings.Contains(full, query) || containsAllWords(full, words) {
			found = append(found, cand)
		}
	}

	switch {
	case len(found) == 1:
		session.Ctx.AwaitingCandidateName = false
		session.Ctx.SelectedCandidates = []store.Candidate{found[0]}
		d.states.Transition(session, store.StateChoosingContractType)

		res := okResult()
		res.Message = fmt.Sprintf(
			"✅ Candidat trouvé : %s (%s)\n\nQuel type de contrat souhaitez-vous générer ?",
			found[0].FullName(), found[0].Email,
		)
		res.Actions = contractTypeActions
		return res

	case len(found) > 1:
		session.Ctx.AwaitingCandidateName = false
		session.Ctx.MatchedCandidates = found
		session.Ctx.SelectedCandidates = nil
		d.states.Transition(session, store.StateChoosingContractCandidate)

		res := okResult()
		res.Message = fmt.Sprintf("🔎 %d candidats correspondent à « %s ».\n\n👉 Lequel ?", len(found), text)
		res.Actions = contractCandidateActions(found)
		return res

	default:
		res := failResult(fmt.Sprintf("❌ Aucun candidat nommé « %s » dans la base.", text))
		res.Actions = []SuggestedAction{
			{Label: "⌨️ Réessayer", Action: string(action.KindEnterCandidateName), Style: StylePrimary},
			{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
			{Label: "❌ Annuler", Action: string(action.KindCancelCandidateName), Style: StyleSecondary},
		}
		return res
	}
}

func containsAllWords(haystack string, words []string) bool {
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}
