package dispatcher

import (
	"context"
	"fmt"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/engine/intent"
	"smart-hire-be/pkg/store"
)

// executeSearch runs the matcher over the full candidate pool. A collaborator
// failure reports without mutating the session; an empty match set is not a
// dead end, it pivots to the LinkedIn publication branch.
func (d *Dispatcher) executeSearch(ctx context.Context, session *store.Session) *ActionResult {
	pool, err := d.directory.All(ctx)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Erreur lors de la recherche : %v", err))
	}

	desc := session.Ctx.JobDescription
	count := session.Ctx.NumCandidatesOr(intent.DefaultNumCandidates)

	match, err := d.matcher.Match(ctx, desc, pool, count)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Erreur lors de la recherche : %v", err))
	}

	res := okResult()
	if match.HasResults {
		session.Ctx.MatchedCandidates = match.Candidates
		d.states.Transition(session, store.StateMatched)

		res.Message = fmt.Sprintf("✅ Excellent ! J'ai trouvé %d candidat(s) correspondant à votre recherche !", len(match.Candidates))
		res.Data["matched_candidates"] = match.Candidates
		res.Actions = []SuggestedAction{
			{Label: "📧 Inviter aux entretiens", Action: string(action.KindSendInvitations), Style: StylePrimary},
			{Label: "⭐ Ajouter aux favoris", Action: "add_favorite", Style: StyleSecondary},
			{Label: "📄 Voir les détails", Action: "view_details", Style: StyleSecondary},
		}
		return res
	}

	session.Ctx.PendingLinkedInPost = desc
	session.Ctx.JobTitle = truncate(desc, 50)
	d.states.Transition(session, store.StateNoMatch)

	reason := match.Reason
	if reason == "" {
		reason = "Aucun profil correspondant."
	}
	res.Message = fmt.Sprintf(
		"😔 Aucun candidat ne correspond actuellement.\n\nMotif: %s\n\n**Solution:** Publier l'offre sur LinkedIn pour attirer des candidats !",
		reason,
	)
	res.Actions = []SuggestedAction{
		{Label: "🔗 Publier sur LinkedIn", Action: string(action.KindPublishLinkedInJob), Style: StylePrimary},
		{Label: "✏️ Personnaliser le post", Action: string(action.KindCustomizePost), Style: StyleSecondary},
		{Label: "⏭️ Essayer une autre recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
	}
	return res
}

// newSearch is the explicit full reset point: every context slot is cleared,
// including selections left over from an interrupted contract flow.
func (d *Dispatcher) newSearch(session *store.Session) *ActionResult {
	session.Ctx.Reset()
	d.states.Transition(session, store.StateIdle)

	res := okResult()
	res.Message = "🔍 **Nouvelle recherche**\n\n" +
		"Quel profil cherchez-vous ?\n" +
		"Exemples : '3 développeurs Python', '2 Data Scientists seniors'"
	res.Actions = []SuggestedAction{
		{Label: "🔍 Lancer une recherche", Action: "search_candidates", Style: StylePrimary},
	}
	return res
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
