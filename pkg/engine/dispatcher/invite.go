package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/store"
)

const interviewDuration = "1 heure"

var locationMap = map[string]string{
	"bureau": "Nos bureaux - Smart-Hire, 123 Avenue des Champs-Élysées, 75008 Paris",
	"visio":  "Visioconférence - Lien envoyé par email",
	"cafe":   "Café Le Procope, 13 Rue de l'Ancienne Comédie, 75006 Paris",
}

const locationPlaceholder = "Lieu à définir"

// sendInvitations opens the invitation flow: pick how many of the matched
// candidates to invite. Without a prior search there is nothing to invite,
// which is an input error with a recovery action.
func (d *Dispatcher) sendInvitations(session *store.Session) *ActionResult {
	matched := session.Ctx.MatchedCandidates
	if len(matched) == 0 {
		res := failResult("❌ Aucun candidat disponible. Faites d'abord une recherche.")
		res.Actions = []SuggestedAction{
			{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StylePrimary},
		}
		return res
	}

	session.Ctx.SelectedCandidates = nil
	session.Ctx.DesiredInviteCount = nil
	d.states.Transition(session, store.StateSelectingInviteCount)

	quick := len(matched)
	if quick > 5 {
		quick = 5
	}
	actions := make([]SuggestedAction, 0, quick+1)
	for count := 1; count <= quick; count++ {
		style := StyleSecondary
		if count == 1 {
			style = StylePrimary
		}
		actions = append(actions, SuggestedAction{
			Label:  fmt.Sprintf("Inviter %d candidat(s)", count),
			Action: action.Token{Kind: action.KindSetInviteCount, Count: count}.Encode(),
			Style:  style,
		})
	}
	if len(matched) > 1 {
		actions = append(actions, SuggestedAction{
			Label:  fmt.Sprintf("🎯 Inviter tout le monde (%d)", len(matched)),
			Action: action.Token{Kind: action.KindSetInviteCount, All: true}.Encode(),
			Style:  StyleSecondary,
		})
	}

	res := okResult()
	res.Message = fmt.Sprintf(
		"📧 **Invitations aux entretiens**\n\nVous avez %d candidat(s) disponible(s).\n\n👉 Combien de candidat(s) souhaitez-vous inviter ?",
		len(matched),
	)
	res.Actions = actions
	res.Data["matched_candidates"] = matched
	return res
}

// setInviteCount clamps the requested count to what is available. Asking for
// everyone (or more than everyone) skips per-candidate selection entirely.
func (d *Dispatcher) setInviteCount(token action.Token, session *store.Session) *ActionResult {
	matched := session.Ctx.MatchedCandidates
	if len(matched) == 0 {
		return failResult("❌ Aucun candidat disponible. Veuillez relancer une recherche.")
	}

	desired := token.Count
	if token.All || desired > len(matched) {
		desired = len(matched)
	}
	session.Ctx.DesiredInviteCount = &desired
	session.Ctx.SelectedCandidates = nil

	res := okResult()
	if desired >= len(matched) {
		session.Ctx.SelectedCandidates = append([]store.Candidate(nil), matched...)
		d.states.Transition(session, store.StateAwaitingDate)

		res.Message = fmt.Sprintf(
			"✅ **%d candidat(s) sélectionné(s)**\n\n%s\n\n📅 Choisissez une date et heure commune pour l'entretien :",
			len(matched), candidateLines(matched, true),
		)
		res.Actions = d.dateChoices()
		return res
	}

	d.states.Transition(session, store.StateSelectingCandidates)
	res.Message = fmt.Sprintf(
		"🎯 Vous souhaitez inviter %d candidat(s).\n\n👉 Sélectionnez les candidats à inviter :",
		desired,
	)
	res.Actions = remainingCandidateActions(matched, nil)
	res.Data["matched_candidates"] = matched
	return res
}

// selectCandidate appends one candidate (deduplicated by value identity) and
// either re-offers the remaining ones or, the moment the desired count is
// reached, moves on to the date choice.
func (d *Dispatcher) selectCandidate(token action.Token, session *store.Session) *ActionResult {
	matched := session.Ctx.MatchedCandidates
	if token.Index < 0 || token.Index >= len(matched) {
		return failResult("❌ Candidat non trouvé.")
	}

	desired := len(matched)
	if session.Ctx.DesiredInviteCount != nil {
		desired = *session.Ctx.DesiredInviteCount
	}

	candidate := matched[token.Index]
	if !containsCandidate(session.Ctx.SelectedCandidates, candidate) {
		session.Ctx.SelectedCandidates = append(session.Ctx.SelectedCandidates, candidate)
	}
	selected := session.Ctx.SelectedCandidates

	remaining := desired - len(selected)
	res := okResult()
	if remaining <= 0 {
		d.states.Transition(session, store.StateAwaitingDate)
		res.Message = fmt.Sprintf(
			"✅ Sélection terminée : %d candidat(s)\n\n%s\n\n📅 Choisissez une date et heure commune pour l'entretien :",
			len(selected), candidateLines(selected, true),
		)
		res.Actions = d.dateChoices()
		return res
	}

	names := make([]string, 0, len(selected))
	for _, c := range selected {
		names = append(names, c.FullName())
	}
	res.Message = fmt.Sprintf(
		"🧩 %d/%d sélectionné(s)\nActuellement : %s\n\n👉 Choisissez encore %d candidat(s) :",
		len(selected), desired, strings.Join(names, ", "), remaining,
	)
	res.Actions = remainingCandidateActions(matched, selected)
	return res
}

// setDate parses the fixed YYYY-MM-DD / HH:MM encoding and asks where the
// interview will take place.
func (d *Dispatcher) setDate(token action.Token, session *store.Session) *ActionResult {
	when, err := time.ParseInLocation("2006-01-02 15:04", token.Date+" "+token.Time, time.Local)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Erreur lors de la définition de la date : %v", err))
	}
	session.Ctx.InterviewDate = &when
	d.states.Transition(session, store.StateAwaitingLocation)

	res := okResult()
	res.Message = fmt.Sprintf(
		"📅 **Date d'entretien confirmée**\n\n🕒 %s\n\n👥 Candidats concernés :\n%s\n\n📍 **Où se déroulera l'entretien ?**",
		when.Format("02/01/2006 à 15:04"), candidateLines(session.Ctx.SelectedCandidates, false),
	)
	res.Actions = []SuggestedAction{
		{Label: "🏢 Au bureau", Action: action.Token{Kind: action.KindSetLocation, Location: "bureau"}.Encode(), Style: StylePrimary},
		{Label: "💻 En visio (Teams/Zoom)", Action: action.Token{Kind: action.KindSetLocation, Location: "visio"}.Encode(), Style: StylePrimary},
		{Label: "☕ Dans un café", Action: action.Token{Kind: action.KindSetLocation, Location: "cafe"}.Encode(), Style: StyleSecondary},
		{Label: "✏️ Autre lieu", Action: action.Token{Kind: action.KindSetLocation, Location: "custom"}.Encode(), Style: StyleSecondary},
	}
	return res
}

// setLocation resolves the location key and sends one invitation per
// selected candidate. Sends are independent: one failure never short-circuits
// the rest, and the summary names both groups.
func (d *Dispatcher) setLocation(ctx context.Context, token action.Token, session *store.Session) *ActionResult {
	loc, ok := locationMap[token.Location]
	if !ok {
		loc = locationPlaceholder
	}
	session.Ctx.InterviewLocation = loc

	selected := session.Ctx.SelectedCandidates
	date := session.Ctx.InterviewDate
	if len(selected) == 0 || date == nil {
		return failResult("❌ Informations manquantes (candidat ou date)")
	}

	if !d.mailer.Configured() {
		res := failResult("❌ **Erreur de configuration**\n\nCredentials SMTP manquants. Configurez SMTP_EMAIL et SMTP_PASSWORD.")
		res.Actions = []SuggestedAction{
			{Label: "⚙️ Configurer SMTP", Action: string(action.KindHelp), Style: StylePrimary},
			{Label: "❌ Annuler", Action: string(action.KindHelp), Style: StyleSecondary},
		}
		return res
	}

	var successes, failures, recipients []string
	for _, cand := range selected {
		line := fmt.Sprintf("- %s (%s)", cand.FullName(), cand.Email)
		if err := d.mailer.SendInterviewInvite(ctx, cand.Email, cand.FullName(), *date, loc, interviewDuration); err != nil {
			d.logger.Printf("[INVITE] %s: send to %s failed: %v", session.ID, cand.Email, err)
			failures = append(failures, line)
		} else {
			successes = append(successes, line)
			recipients = append(recipients, cand.Email)
		}
	}

	if len(successes) == 0 {
		res := failResult(
			"❌ **Erreur lors de l'envoi de l'email**\n\n" +
				"Vérifiez :\n- Credentials SMTP\n- Emails valides\n- Connexion Internet\n\nVoulez-vous réessayer ?",
		)
		res.Actions = []SuggestedAction{
			{Label: "🔄 Réessayer", Action: token.Encode(), Style: StylePrimary},
			{Label: "❌ Annuler", Action: string(action.KindHelp), Style: StyleSecondary},
		}
		return res
	}

	d.states.Transition(session, store.StateInvitationsSent)

	failureBlock := ""
	if len(failures) > 0 {
		failureBlock = "\n\n⚠️ Non envoyés :\n" + strings.Join(failures, "\n")
	}
	res := okResult()
	res.Message = fmt.Sprintf(
		"✅ **Email(s) envoyé(s) avec succès !**\n\n📅 Date : %s\n📍 Lieu : %s\n\nDestinataires :\n%s%s\n\nQue voulez-vous faire ensuite ?",
		date.Format("02/01/2006 à 15:04"), loc, strings.Join(successes, "\n"), failureBlock,
	)
	res.Actions = []SuggestedAction{
		{Label: "📧 Inviter d'autres candidats", Action: string(action.KindSendInvitations), Style: StylePrimary},
		{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
		{Label: "📊 Voir les statistiques", Action: string(action.KindHelp), Style: StyleSecondary},
	}
	res.Data["invitations_sent"] = map[string]interface{}{
		"recipients": recipients,
		"count":      len(recipients),
		"date":       date.Format("02/01/2006 15:04"),
		"location":   loc,
	}
	return res
}

// dateChoices offers tomorrow / the day after at fixed times, computed from
// the injected clock so the encoded dates are concrete.
func (d *Dispatcher) dateChoices() []SuggestedAction {
	now := d.now()
	day1 := now.AddDate(0, 0, 1).Format("2006-01-02")
	day2 := now.AddDate(0, 0, 2).Format("2006-01-02")
	return []SuggestedAction{
		{Label: "📅 Demain 10h", Action: action.Token{Kind: action.KindSetDate, Date: day1, Time: "10:00"}.Encode(), Style: StylePrimary},
		{Label: "📅 Demain 14h", Action: action.Token{Kind: action.KindSetDate, Date: day1, Time: "14:00"}.Encode(), Style: StylePrimary},
		{Label: "📅 Après-demain 10h", Action: action.Token{Kind: action.KindSetDate, Date: day2, Time: "10:00"}.Encode(), Style: StyleSecondary},
		{Label: "📅 Après-demain 15h", Action: action.Token{Kind: action.KindSetDate, Date: day2, Time: "15:00"}.Encode(), Style: StyleSecondary},
		{Label: "❌ Annuler", Action: string(action.KindSendInvitations), Style: StyleSecondary},
	}
}

func remainingCandidateActions(matched, selected []store.Candidate) []SuggestedAction {
	actions := make([]SuggestedAction, 0, len(matched))
	for idx, cand := range matched {
		if containsCandidate(selected, cand) {
			continue
		}
		actions = append(actions, SuggestedAction{
			Label:  "✅ " + cand.FullName(),
			Action: action.Token{Kind: action.KindSelectCandidate, Index: idx}.Encode(),
			Style:  StyleSecondary,
		})
	}
	return actions
}

func containsCandidate(list []store.Candidate, c store.Candidate) bool {
	for _, item := range list {
		if item.Same(c) {
			return true
		}
	}
	return false
}

func candidateLines(list []store.Candidate, withEmail bool) string {
	if len(list) == 0 {
		return "Aucun candidat"
	}
	lines := make([]string, 0, len(list))
	for _, c := range list {
		if withEmail {
			email := c.Email
			if email == "" {
				email = "N/A"
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", c.FullName(), email))
		} else {
			lines = append(lines, "- "+c.FullName())
		}
	}
	return strings.Join(lines, "\n")
}
