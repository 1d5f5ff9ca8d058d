package dispatcher

import (
	"context"
	"fmt"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/engine/intent"
	"smart-hire-be/pkg/store"
)

// publishLinkedInJob generates a post from the pending job description and
// publishes it. An unauthenticated publisher routes the user to the OAuth
// login first; the pending description stays in the session until then.
func (d *Dispatcher) publishLinkedInJob(ctx context.Context, session *store.Session) *ActionResult {
	if session.Ctx.PendingLinkedInPost == "" {
		res := failResult("❌ Aucune offre à publier. Lancez d'abord une recherche.")
		res.Actions = []SuggestedAction{
			{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StylePrimary},
		}
		return res
	}

	if !d.publisher.IsAuthenticated() {
		res := failResult("🔗 Authentification LinkedIn requise.\n\nConnectez-vous pour publier l'offre d'emploi.")
		res.Actions = []SuggestedAction{
			{Label: "🔐 Se connecter à LinkedIn", Action: string(action.KindLinkedInLogin), Style: StylePrimary},
			{Label: "❌ Annuler", Action: string(action.KindHelp), Style: StyleSecondary},
		}
		return res
	}

	count := session.Ctx.NumCandidatesOr(intent.DefaultNumCandidates)
	content, err := d.publisher.GeneratePostContent(ctx, session.Ctx.PendingLinkedInPost, count)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Erreur lors de la génération du post : %v", err))
	}

	// The draft outlives a failed publish, so it is written first.
	draftPath, draftErr := d.publisher.SaveDraft(content)
	if draftErr != nil {
		d.logger.Printf("[LINKEDIN] %s: draft save failed: %v", session.ID, draftErr)
	}

	if err := d.publisher.Publish(ctx, content); err != nil {
		d.logger.Printf("[LINKEDIN] %s: publish failed: %v", session.ID, err)
		return failResult(fmt.Sprintf("❌ Erreur lors de la publication : %v", err))
	}

	res := okResult()
	res.Message = "✅ Post LinkedIn publié avec succès ! 🚀\n\n" +
		"Les candidatures arriveront par email.\n" +
		"Pensez à synchroniser régulièrement votre boîte mail."
	res.Actions = []SuggestedAction{
		{Label: "📥 Synchroniser les emails", Action: string(action.KindSyncNow), Style: StylePrimary},
		{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
	}
	res.Data["post_content"] = content
	if draftPath != "" {
		res.Data["draft_path"] = draftPath
	}
	return res
}

func (d *Dispatcher) customizeLinkedInPost(session *store.Session) *ActionResult {
	res := okResult()
	res.Message = "✏️ **Personnaliser le post LinkedIn**\n\n" +
		"Décrivez les modifications souhaitées (ton, contenu, hashtags) " +
		"ou publiez le brouillon tel quel."
	res.Actions = []SuggestedAction{
		{Label: "🔗 Publier maintenant", Action: string(action.KindPublishLinkedInJob), Style: StylePrimary},
		{Label: "📋 Voir le brouillon", Action: string(action.KindViewDraft), Style: StyleSecondary},
		{Label: "❌ Annuler", Action: string(action.KindHelp), Style: StyleSecondary},
	}
	return res
}

// linkedInLogin hands out the OAuth authorization URL when client credentials
// are present.
func (d *Dispatcher) linkedInLogin(session *store.Session) *ActionResult {
	if !d.publisher.IsConfigured() {
		return failResult("❌ Credentials LinkedIn manquants. Configurez client_id / secret.")
	}

	url, err := d.publisher.AuthURL()
	if err != nil {
		return failResult(fmt.Sprintf("❌ Erreur LinkedIn : %v", err))
	}

	res := okResult()
	res.Message = "🔐 **Connexion LinkedIn**\n\n" +
		"1. Ouvrez le lien d'autorisation\n" +
		"2. Acceptez les permissions\n" +
		"3. Revenez ici, puis relancez la publication"
	res.Actions = []SuggestedAction{
		{Label: "🔗 Publier sur LinkedIn", Action: string(action.KindPublishLinkedInJob), Style: StylePrimary},
		{Label: "❌ Annuler", Action: string(action.KindHelp), Style: StyleSecondary},
	}
	res.Data["auth_url"] = url
	return res
}

func (d *Dispatcher) viewDraft(session *store.Session) *ActionResult {
	draft := session.Ctx.PendingLinkedInPost
	if draft == "" {
		draft = "(aucun brouillon)"
	}
	res := okResult()
	res.Message = fmt.Sprintf("📋 **Brouillon du post LinkedIn**\n\n%s", draft)
	res.Actions = []SuggestedAction{
		{Label: "🔗 Publier maintenant", Action: string(action.KindPublishLinkedInJob), Style: StylePrimary},
		{Label: "📥 Synchroniser les emails", Action: string(action.KindSyncNow), Style: StyleSecondary},
	}
	return res
}
