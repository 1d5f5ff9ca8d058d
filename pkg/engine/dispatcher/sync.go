package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/store"
)

// syncNow pulls CVs out of the recruiting mailbox. Credentials are resolved
// before any connection attempt; a missing credential is a configuration
// error, never a network one.
func (d *Dispatcher) syncNow(ctx context.Context, session *store.Session) *ActionResult {
	creds := d.resolveSyncCredentials()
	if creds.Email == "" || creds.Password == "" {
		res := failResult("❌ Credentials email manquants. Configurez SENDER_EMAIL et SENDER_PASSWORD.")
		res.Actions = []SuggestedAction{
			{Label: "✅ OK", Action: string(action.KindAcknowledge), Style: StylePrimary},
		}
		return res
	}

	summary, err := d.syncer.Sync(ctx, creds)
	if err != nil {
		d.logger.Printf("[SYNC] %s: sync failed: %v", session.ID, err)
		res := failResult(fmt.Sprintf("❌ Erreur lors de la synchronisation : %v", err))
		res.Actions = []SuggestedAction{
			{Label: "🔄 Réessayer", Action: string(action.KindSyncNow), Style: StylePrimary},
		}
		return res
	}

	connection := "❌ Échec"
	if summary.Connected {
		connection = "✅ OK"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📥 **Synchronisation terminée**\n\n")
	fmt.Fprintf(&b, "🔌 Connexion : %s\n", connection)
	fmt.Fprintf(&b, "📧 Emails trouvés : %d\n", summary.EmailsFound)
	fmt.Fprintf(&b, "📄 CVs traités : %d\n", summary.CVsProcessed)
	fmt.Fprintf(&b, "👥 Candidats ajoutés : %d", summary.CVsAdded)

	if len(summary.CandidatesAdded) > 0 {
		b.WriteString("\n\n- Nouveaux:")
		shown := summary.CandidatesAdded
		extra := 0
		if len(shown) > 5 {
			extra = len(shown) - 5
			shown = shown[:5]
		}
		for _, cand := range shown {
			fmt.Fprintf(&b, "\n  - %s", cand.FullName())
		}
		if extra > 0 {
			fmt.Fprintf(&b, "\n  +%d autres", extra)
		}
	}
	if len(summary.Errors) > 0 {
		fmt.Fprintf(&b, "\n\n⚠️ Erreurs: %d (voir log console)", len(summary.Errors))
		for _, e := range summary.Errors {
			d.logger.Printf("[SYNC] %s: %s", session.ID, e)
		}
	}

	res := okResult()
	res.Message = b.String()
	res.Actions = []SuggestedAction{
		{Label: "✅ OK", Action: string(action.KindAcknowledge), Style: StylePrimary},
		{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
	}
	res.Data["sync_summary"] = summary
	return res
}
