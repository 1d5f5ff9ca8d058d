// Package composer turns one free-text user message into a structured reply:
// intent classification, parameter capture into the session context, and a
// short conversational response with the follow-up buttons for that intent.
package composer

import (
	"context"
	"log"
	"time"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/engine/intent"
	"smart-hire-be/pkg/llm"
	"smart-hire-be/pkg/store"
)

// llmTimeout bounds the conversational reply. Past it the canned fallback
// for the intent is served; the flow itself never depends on the model.
const llmTimeout = 10 * time.Second

// TurnReply is the full outcome of one user message.
type TurnReply struct {
	Response   string                       `json:"response"`
	Intent     string                       `json:"intent"`
	Confidence float64                      `json:"confidence"`
	Actions    []dispatcher.SuggestedAction `json:"actions"`
	Data       map[string]interface{}       `json:"data"`
	Timestamp  time.Time                    `json:"timestamp"`
}

type Composer struct {
	provider   llm.LLMProvider
	dispatcher *dispatcher.Dispatcher
	directory  dispatcher.CandidateDirectory
	logger     *log.Logger
	now        func() time.Time
}

func New(provider llm.LLMProvider, disp *dispatcher.Dispatcher, directory dispatcher.CandidateDirectory, logger *log.Logger) *Composer {
	return &Composer{
		provider:   provider,
		dispatcher: disp,
		directory:  directory,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source used for turn timestamps.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// ProcessMessage runs the full turn pipeline. The user turn is recorded
// first, the assistant turn last, so history stays complete even when a
// collaborator fails mid-turn.
func (c *Composer) ProcessMessage(ctx context.Context, message string, session *store.Session) *TurnReply {
	session.Append(store.RoleUser, message)

	// An armed name prompt intercepts the turn before classification.
	if session.Ctx.AwaitingCandidateName {
		result := c.dispatcher.HandleNameInput(ctx, message, session)
		reply := &TurnReply{
			Response: result.Message,
			Intent:   intent.GenerateContract,
			// The message answers our own prompt, there is nothing to guess.
			Confidence: 1.0,
			Actions:    result.Actions,
			Data:       result.Data,
			Timestamp:  c.now(),
		}
		session.Append(store.RoleAssistant, reply.Response)
		return reply
	}

	label, confidence := intent.Classify(message)
	params := intent.Extract(message, label)
	mergeParams(session, label, params)

	// Contract generation goes straight into its flow; a chat reply would
	// only restate the first question.
	if label == intent.GenerateContract {
		result := c.dispatcher.Dispatch(ctx, action.Token{Kind: action.KindStartContract}, session)
		reply := &TurnReply{
			Response:   result.Message,
			Intent:     label,
			Confidence: confidence,
			Actions:    result.Actions,
			Data:       result.Data,
			Timestamp:  c.now(),
		}
		session.Append(store.RoleAssistant, reply.Response)
		return reply
	}

	reply := &TurnReply{
		Response:   c.respond(ctx, message, label, session),
		Intent:     label,
		Confidence: confidence,
		Actions:    suggestedActions(label),
		Data:       c.relevantData(ctx, label, params),
		Timestamp:  c.now(),
	}
	session.Append(store.RoleAssistant, reply.Response)
	return reply
}

// respond asks the model for a short conversational reply, falling back to
// the canned text for the intent on any failure.
func (c *Composer) respond(ctx context.Context, message, label string, session *store.Session) string {
	fallback, ok := fallbackReplies[label]
	if !ok {
		fallback = fallbackReplies[intent.Unknown]
	}
	if c.provider == nil {
		return fallback
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	history := []llm.Message{{Role: "system", Content: systemPrompt}}
	// Last few turns give the model enough context without the full log.
	turns := session.History
	if len(turns) > 6 {
		turns = turns[len(turns)-6:]
	}
	for _, t := range turns {
		history = append(history, llm.Message{Role: t.Role, Content: t.Text})
	}

	response, err := c.provider.Chat(llmCtx, history, llm.WithTemperature(0.6), llm.WithMaxTokens(200))
	if err != nil || response == "" {
		if err != nil {
			c.logger.Printf("[COMPOSER] %s: llm reply failed, serving fallback: %v", session.ID, err)
		}
		return fallback
	}
	return response
}

// mergeParams folds extracted parameters into the session context and
// records the intent for the next turn.
func mergeParams(session *store.Session, label string, params intent.Params) {
	session.Ctx.LastIntent = label
	if params.NumCandidates != nil {
		session.Ctx.NumCandidates = params.NumCandidates
	}
	if params.JobDescription != "" {
		session.Ctx.JobDescription = params.JobDescription
	}
	if params.ContractType != "" {
		session.Ctx.ContractType = params.ContractType
	}
}

func suggestedActions(label string) []dispatcher.SuggestedAction {
	switch label {
	case intent.Greeting, intent.Help:
		return []dispatcher.SuggestedAction{
			{Label: "🔍 Chercher des candidats", Action: "search_candidates", Style: dispatcher.StylePrimary},
			{Label: "📊 Voir les statistiques", Action: "view_stats", Style: dispatcher.StyleSecondary},
			{Label: "📥 Synchroniser les emails", Action: "sync_emails", Style: dispatcher.StyleSecondary},
			{Label: "🔗 Publier sur LinkedIn", Action: "linkedin_post", Style: dispatcher.StyleSecondary},
		}
	case intent.SearchCandidates:
		return []dispatcher.SuggestedAction{
			{Label: "✅ Lancer la recherche", Action: string(action.KindExecuteSearch), Style: dispatcher.StylePrimary},
			{Label: "✏️ Modifier la recherche", Action: "modify_search", Style: dispatcher.StyleSecondary},
			{Label: "❌ Annuler", Action: "cancel", Style: dispatcher.StyleSecondary},
		}
	case intent.ViewCandidates:
		return []dispatcher.SuggestedAction{
			{Label: "📧 Envoyer des invitations", Action: string(action.KindSendInvitations), Style: dispatcher.StylePrimary},
			{Label: "📄 Générer un contrat", Action: string(action.KindStartContract), Style: dispatcher.StyleSecondary},
			{Label: "⭐ Ajouter aux favoris", Action: "add_favorite", Style: dispatcher.StyleSecondary},
		}
	case intent.SendInvitation:
		return []dispatcher.SuggestedAction{
			{Label: "✅ Confirmer l'envoi", Action: "confirm_send", Style: dispatcher.StylePrimary},
			{Label: "📅 Choisir une date", Action: "schedule_date", Style: dispatcher.StyleSecondary},
			{Label: "❌ Annuler", Action: "cancel", Style: dispatcher.StyleSecondary},
		}
	case intent.SyncEmails:
		return []dispatcher.SuggestedAction{
			{Label: "📥 Synchroniser maintenant", Action: string(action.KindSyncNow), Style: dispatcher.StylePrimary},
			{Label: "⚙️ Configurer l'email", Action: "config_email", Style: dispatcher.StyleSecondary},
		}
	case intent.LinkedInPost:
		return []dispatcher.SuggestedAction{
			{Label: "🔗 Publier maintenant", Action: "publish_now", Style: dispatcher.StylePrimary},
			{Label: "✏️ Modifier le post", Action: "edit_post", Style: dispatcher.StyleSecondary},
			{Label: "💾 Sauvegarder le brouillon", Action: "save_draft", Style: dispatcher.StyleSecondary},
		}
	case intent.ViewStats:
		return []dispatcher.SuggestedAction{
			{Label: "📥 Synchroniser les emails", Action: string(action.KindSyncNow), Style: dispatcher.StylePrimary},
			{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: dispatcher.StyleSecondary},
		}
	default:
		return []dispatcher.SuggestedAction{
			{Label: "💡 Voir l'aide", Action: string(action.KindHelp), Style: dispatcher.StylePrimary},
			{Label: "🔍 Chercher des candidats", Action: "search_candidates", Style: dispatcher.StyleSecondary},
		}
	}
}

// relevantData attaches the structured payload some intents carry alongside
// the text reply.
func (c *Composer) relevantData(ctx context.Context, label string, params intent.Params) map[string]interface{} {
	data := map[string]interface{}{}
	switch label {
	case intent.SearchCandidates:
		data["search_params"] = params
	case intent.ViewStats, intent.ViewCandidates:
		count, err := c.directory.Count(ctx)
		if err != nil {
			c.logger.Printf("[COMPOSER] candidate count failed: %v", err)
			return data
		}
		data["total_candidates"] = count
		pool, err := c.directory.All(ctx)
		if err == nil {
			if len(pool) > 5 {
				pool = pool[:5]
			}
			data["candidates"] = pool
		}
	}
	return data
}
