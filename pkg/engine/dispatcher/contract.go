package dispatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/store"
)

var contractTypeActions = []SuggestedAction{
	{Label: "📄 CDI", Action: action.Token{Kind: action.KindContractType, ContractType: "CDI"}.Encode(), Style: StylePrimary},
	{Label: "📄 CDD", Action: action.Token{Kind: action.KindContractType, ContractType: "CDD"}.Encode(), Style: StylePrimary},
	{Label: "📄 Stage", Action: action.Token{Kind: action.KindContractType, ContractType: "Stage"}.Encode(), Style: StyleSecondary},
	{Label: "📄 Freelance", Action: action.Token{Kind: action.KindContractType, ContractType: "Freelance"}.Encode(), Style: StyleSecondary},
}

// contractPool is the candidate list contract pick-list indices refer to:
// the explicit selection when one exists, the last match set otherwise.
func contractPool(session *store.Session) []store.Candidate {
	if len(session.Ctx.SelectedCandidates) > 0 {
		return session.Ctx.SelectedCandidates
	}
	return session.Ctx.MatchedCandidates
}

// startContractGeneration picks the candidate the contract is for. One known
// candidate binds immediately; several become a pick list; none at all offers
// a name lookup or a fresh search.
func (d *Dispatcher) startContractGeneration(session *store.Session) *ActionResult {
	pool := contractPool(session)

	res := okResult()
	switch {
	case len(pool) == 1:
		session.Ctx.SelectedCandidates = []store.Candidate{pool[0]}
		d.states.Transition(session, store.StateChoosingContractType)
		res.Message = fmt.Sprintf(
			"📄 **Génération de contrat**\n\n👤 Candidat : %s\n📧 Email : %s\n\nQuel type de contrat souhaitez-vous générer ?",
			pool[0].FullName(), pool[0].Email,
		)
		res.Actions = contractTypeActions

	case len(pool) > 1:
		d.states.Transition(session, store.StateChoosingContractCandidate)
		res.Message = "📄 **Génération de contrat**\n\n👉 Pour quel candidat ?"
		res.Actions = contractCandidateActions(pool)

	default:
		d.states.Transition(session, store.StateAwaitingCandidateName)
		session.Ctx.AwaitingCandidateName = true
		res.Message = "📄 **Génération de contrat**\n\nAucun candidat en mémoire.\n\n" +
			"Option 1: Entrez le nom complet du candidat (ex: Dupont Marie)\n" +
			"Option 2: Recherchez d'abord des candidats"
		res.Actions = []SuggestedAction{
			{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StylePrimary},
			{Label: "❌ Annuler", Action: string(action.KindCancelCandidateName), Style: StyleSecondary},
		}
	}
	return res
}

// selectContractCandidate binds one candidate from the pick list as the sole
// selection, then asks for the contract type.
func (d *Dispatcher) selectContractCandidate(token action.Token, session *store.Session) *ActionResult {
	pool := contractPool(session)
	if token.Index < 0 || token.Index >= len(pool) {
		return failResult("❌ Candidat non trouvé.")
	}
	cand := pool[token.Index]
	session.Ctx.SelectedCandidates = []store.Candidate{cand}
	d.states.Transition(session, store.StateChoosingContractType)

	res := okResult()
	res.Message = fmt.Sprintf(
		"📄 **Génération de contrat**\n\n👤 Candidat : %s\n📧 Email : %s\n\nQuel type de contrat souhaitez-vous générer ?",
		cand.FullName(), cand.Email,
	)
	res.Actions = contractTypeActions
	return res
}

// resumeContract binds the candidate and replays the contract type choice in
// one step. The token carries both, so the flow continues where a stale type
// button interrupted it.
func (d *Dispatcher) resumeContract(ctx context.Context, token action.Token, session *store.Session) *ActionResult {
	pool := session.Ctx.MatchedCandidates
	if token.Index < 0 || token.Index >= len(pool) {
		return failResult("❌ Candidat non trouvé.")
	}
	session.Ctx.SelectedCandidates = []store.Candidate{pool[token.Index]}
	return d.Dispatch(ctx, action.Token{Kind: action.KindContractType, ContractType: token.ContractType}, session)
}

// contractType records the chosen type and moves on to the salary brackets.
// Arriving here without a bound candidate happens when the type button was
// clicked before a pick; the candidates are then re-offered with tokens that
// carry the type along.
func (d *Dispatcher) contractType(token action.Token, session *store.Session) *ActionResult {
	if len(session.Ctx.SelectedCandidates) == 0 {
		pool := session.Ctx.MatchedCandidates
		if len(pool) == 0 {
			res := failResult("❌ Aucun candidat sélectionné. Lancez d'abord une recherche.")
			res.Actions = []SuggestedAction{
				{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StylePrimary},
			}
			return res
		}

		d.states.Transition(session, store.StateChoosingContractCandidate)
		res := okResult()
		res.Message = fmt.Sprintf("📄 Contrat %s\n\n👉 Pour quel candidat ?", token.ContractType)
		actions := make([]SuggestedAction, 0, 5)
		for idx, cand := range pool {
			if idx >= 5 {
				break
			}
			actions = append(actions, SuggestedAction{
				Label:  "👤 " + cand.FullName(),
				Action: action.Token{Kind: action.KindResumeContract, ContractType: token.ContractType, Index: idx}.Encode(),
				Style:  StyleSecondary,
			})
		}
		res.Actions = actions
		return res
	}

	session.Ctx.ContractType = token.ContractType
	d.states.Transition(session, store.StateAwaitingSalary)

	cand := session.Ctx.SelectedCandidates[0]
	res := okResult()
	res.Message = fmt.Sprintf(
		"💰 **Contrat %s pour %s**\n\nQuel salaire annuel brut proposez-vous ?",
		token.ContractType, cand.FullName(),
	)
	res.Actions = salaryActions(token.ContractType)
	return res
}

func salaryActions(contractType string) []SuggestedAction {
	brackets := []int{35000, 45000, 55000, 65000}
	actions := make([]SuggestedAction, 0, len(brackets))
	for i, salary := range brackets {
		style := StyleSecondary
		if i == 1 {
			style = StylePrimary
		}
		actions = append(actions, SuggestedAction{
			Label:  fmt.Sprintf("💰 %d €", salary),
			Action: action.Token{Kind: action.KindSetSalary, ContractType: contractType, Salary: salary}.Encode(),
			Style:  style,
		})
	}
	return actions
}

// setSalary stores the bracket and proposes three start dates.
func (d *Dispatcher) setSalary(token action.Token, session *store.Session) *ActionResult {
	salary := token.Salary
	session.Ctx.ContractSalary = &salary
	if token.ContractType != "" {
		session.Ctx.ContractType = token.ContractType
	}
	d.states.Transition(session, store.StateAwaitingStartDate)

	now := d.now()
	offsets := []struct {
		label string
		days  int
	}{
		{"📅 Dans 1 semaine", 7},
		{"📅 Dans 2 semaines", 14},
		{"📅 Dans 1 mois", 30},
	}
	actions := make([]SuggestedAction, 0, len(offsets))
	for i, off := range offsets {
		style := StyleSecondary
		if i == 0 {
			style = StylePrimary
		}
		actions = append(actions, SuggestedAction{
			Label: off.label,
			Action: action.Token{
				Kind:         action.KindSetContractStart,
				ContractType: session.Ctx.ContractType,
				Date:         now.AddDate(0, 0, off.days).Format("2006-01-02"),
			}.Encode(),
			Style: style,
		})
	}

	res := okResult()
	res.Message = fmt.Sprintf(
		"✅ Salaire : %d € brut/an\n\n📅 Quelle date de début de contrat ?",
		salary,
	)
	res.Actions = actions
	return res
}

// setContractStart stores the start date. A CDD needs an end date too; every
// other type goes straight to generation.
func (d *Dispatcher) setContractStart(ctx context.Context, token action.Token, session *store.Session) *ActionResult {
	start, err := time.ParseInLocation("2006-01-02", token.Date, time.Local)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Date de début invalide : %v", err))
	}
	session.Ctx.ContractStartDate = &start
	if token.ContractType != "" {
		session.Ctx.ContractType = token.ContractType
	}

	if session.Ctx.ContractType == "CDD" {
		d.states.Transition(session, store.StateAwaitingEndDate)

		offsets := []struct {
			label string
			days  int
		}{
			{"📅 6 mois", 180},
			{"📅 12 mois", 365},
			{"📅 18 mois", 540},
		}
		actions := make([]SuggestedAction, 0, len(offsets))
		for i, off := range offsets {
			style := StyleSecondary
			if i == 1 {
				style = StylePrimary
			}
			actions = append(actions, SuggestedAction{
				Label: off.label,
				Action: action.Token{
					Kind:         action.KindSetContractEnd,
					ContractType: "CDD",
					Date:         start.AddDate(0, 0, off.days).Format("2006-01-02"),
				}.Encode(),
				Style: style,
			})
		}

		res := okResult()
		res.Message = fmt.Sprintf(
			"✅ Début : %s\n\n📅 Quelle date de fin pour ce CDD ?",
			start.Format("02/01/2006"),
		)
		res.Actions = actions
		return res
	}

	return d.Dispatch(ctx, action.Token{Kind: action.KindGenerateContractNow}, session)
}

func (d *Dispatcher) setContractEnd(ctx context.Context, token action.Token, session *store.Session) *ActionResult {
	end, err := time.ParseInLocation("2006-01-02", token.Date, time.Local)
	if err != nil {
		return failResult(fmt.Sprintf("❌ Date de fin invalide : %v", err))
	}
	session.Ctx.ContractEndDate = &end
	return d.Dispatch(ctx, action.Token{Kind: action.KindGenerateContractNow}, session)
}

// generateContractNow renders the contract document. The scratch slots (type,
// salary, dates) are cleared only on success so a failed render can be
// retried without re-entering everything.
func (d *Dispatcher) generateContractNow(ctx context.Context, session *store.Session) *ActionResult {
	if len(session.Ctx.SelectedCandidates) == 0 {
		return failResult("❌ Aucun candidat sélectionné pour le contrat.")
	}
	cand := session.Ctx.SelectedCandidates[0]
	cType := session.Ctx.ContractType
	if cType == "" {
		return failResult("❌ Type de contrat manquant.")
	}
	if session.Ctx.ContractSalary == nil {
		return failResult("❌ Salaire manquant.")
	}
	if session.Ctx.ContractStartDate == nil {
		return failResult("❌ Date de début manquante.")
	}
	salary := *session.Ctx.ContractSalary
	start := *session.Ctx.ContractStartDate
	end := session.Ctx.ContractEndDate

	path, err := d.renderer.Render(ctx, cand, cType, salary, start, end)
	if err != nil {
		d.logger.Printf("[CONTRACT] %s: render failed: %v", session.ID, err)
		res := failResult(fmt.Sprintf("❌ Erreur lors de la génération du contrat : %v", err))
		res.Actions = []SuggestedAction{
			{Label: "🔄 Réessayer", Action: string(action.KindGenerateContractNow), Style: StylePrimary},
			{Label: "❌ Annuler", Action: string(action.KindHelp), Style: StyleSecondary},
		}
		return res
	}

	session.Ctx.ClearContractScratch()
	d.states.Transition(session, store.StateContractGenerated)

	endLine := ""
	if end != nil {
		endLine = fmt.Sprintf("\n📅 Fin : %s", end.Format("02/01/2006"))
	}
	res := okResult()
	res.Message = fmt.Sprintf(
		"✅ **Contrat généré avec succès !**\n\n📄 Type : %s\n👤 Candidat : %s\n💰 Salaire : %d € brut/an\n📅 Début : %s%s\n\n📂 Fichier : %s",
		cType, cand.FullName(), salary, start.Format("02/01/2006"), endLine, filepath.Base(path),
	)
	res.Actions = []SuggestedAction{
		{Label: "📄 Générer un autre contrat", Action: string(action.KindStartContract), Style: StylePrimary},
		{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
	}
	res.Data["contract_path"] = path
	res.Data["contract_filename"] = filepath.Base(path)
	return res
}

// enterCandidateName arms the next free-text turn to be read as a candidate
// name instead of a chat message.
func (d *Dispatcher) enterCandidateName(session *store.Session) *ActionResult {
	session.Ctx.AwaitingCandidateName = true
	d.states.Transition(session, store.StateAwaitingCandidateName)

	res := okResult()
	res.Message = "⌨️ Entrez le nom complet du candidat (ex: Dupont Marie) :"
	res.Actions = []SuggestedAction{
		{Label: "❌ Annuler", Action: string(action.KindCancelCandidateName), Style: StyleSecondary},
	}
	return res
}

func (d *Dispatcher) cancelCandidateEntry(session *store.Session) *ActionResult {
	session.Ctx.AwaitingCandidateName = false
	d.states.Transition(session, store.StateIdle)

	res := okResult()
	res.Message = "❌ Saisie annulée. Que voulez-vous faire ?"
	res.Actions = helpActions()
	return res
}

func contractCandidateActions(pool []store.Candidate) []SuggestedAction {
	actions := make([]SuggestedAction, 0, 5)
	for idx, cand := range pool {
		if idx >= 5 {
			break
		}
		actions = append(actions, SuggestedAction{
			Label:  "👤 " + cand.FullName(),
			Action: action.Token{Kind: action.KindSelectContractCandidate, Index: idx}.Encode(),
			Style:  StyleSecondary,
		})
	}
	return actions
}
