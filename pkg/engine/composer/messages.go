package composer

import "smart-hire-be/pkg/engine/intent"

// fallbackReplies are served when the LLM is unreachable or too slow. The
// assistant stays usable offline because every transition is button-driven.
var fallbackReplies = map[string]string{
	intent.Greeting:         "👋 Bonjour ! Je suis SMART-HIRE, votre assistant de recrutement.",
	intent.SearchCandidates: "🔍 Parfait, je cherche les meilleurs candidats.",
	intent.ViewCandidates:   "📋 Voici la liste des candidats.",
	intent.SendInvitation:   "📧 Je prépare les invitations.",
	intent.GenerateContract: "📄 Génération de contrat - Quel type souhaitez-vous ?",
	intent.SyncEmails:       "📥 Je synchronise vos emails et CVs.",
	intent.ViewStats:        "📊 Voici vos statistiques.",
	intent.LinkedInPost:     "🔗 Préparation d'un post LinkedIn...",
	intent.Help:             "💡 Je peux chercher des candidats, envoyer des invitations, générer des contrats et publier sur LinkedIn.",
	intent.Unknown:          "🤔 Je n'ai pas bien compris. Pouvez-vous reformuler ?",
}

const systemPrompt = "Tu es SMART-HIRE, un assistant de recrutement francophone. " +
	"Réponds de façon brève, chaleureuse et professionnelle. " +
	"Ne promets jamais une action que tu n'as pas encore effectuée."
