// Package contractgen renders French employment contracts (CDI, CDD,
// internship agreement, freelance service contract) as PDF documents.
package contractgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"smart-hire-be/pkg/store"
)

type Generator struct {
	CompanyName    string
	CompanyAddress string
	OutputDir      string

	now func() time.Time
}

func New(outputDir string) *Generator {
	if outputDir == "" {
		outputDir = "data/contracts"
	}
	return &Generator{
		CompanyName:    "Smart-Hire SAS",
		CompanyAddress: "123 Avenue de l'Innovation, 75001 Paris",
		OutputDir:      outputDir,
		now:            time.Now,
	}
}

// WithClock overrides the time source used in references and filenames.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Render writes the contract PDF and returns its path. The end date is only
// consulted for CDD contracts.
func (g *Generator) Render(ctx context.Context, candidate store.Candidate, contractType string, salary int, start time.Time, end *time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create contract dir: %w", err)
	}

	doc := newContractDoc()
	info := contractInfo{
		candidateName:  candidate.FullName(),
		candidateEmail: candidate.Email,
		position:       positionOrDefault(candidate.Title),
		salary:         salary,
		startDate:      start.Format("02/01/2006"),
		contractDate:   g.now().Format("02/01/2006"),
		companyName:    g.CompanyName,
		companyAddress: g.CompanyAddress,
		ref:            fmt.Sprintf("%s-%s", refPrefix(contractType), g.now().Format("20060102")),
	}
	if end != nil {
		info.endDate = end.Format("02/01/2006")
	} else {
		info.endDate = "A définir"
	}

	switch contractType {
	case "CDD":
		doc.renderCDD(info)
	case "Stage":
		doc.renderInternship(info)
	case "Freelance":
		doc.renderFreelance(info)
	default:
		doc.renderCDI(info)
	}

	filename := fmt.Sprintf("contrat_%s_%s_%s.pdf",
		sanitize(candidate.LastName), sanitize(candidate.FirstName), g.now().Format("20060102"))
	path := filepath.Join(g.OutputDir, filename)
	if err := doc.pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write contract pdf: %w", err)
	}
	return path, nil
}

func positionOrDefault(title string) string {
	if title == "" {
		return "Poste à définir"
	}
	return title
}

func refPrefix(contractType string) string {
	switch contractType {
	case "CDD":
		return "CDD"
	case "Stage":
		return "STAGE"
	case "Freelance":
		return "FREELANCE"
	default:
		return "CDI"
	}
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "candidat"
	}
	return string(out)
}

type contractInfo struct {
	candidateName  string
	candidateEmail string
	position       string
	salary         int
	startDate      string
	endDate        string
	contractDate   string
	companyName    string
	companyAddress string
	ref            string
}

// contractDoc wraps fpdf with the shared layout helpers. The core fonts are
// Latin-1 only, so every string goes through the cp1252 translator.
type contractDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newContractDoc() *contractDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()
	return &contractDoc{pdf: pdf, tr: tr}
}

func (d *contractDoc) title(text string) {
	d.pdf.SetFont("Arial", "B", 14)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(5)
}

func (d *contractDoc) sectionTitle(text string) {
	d.pdf.SetFont("Arial", "B", 11)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.SetLineWidth(0.5)
	y := d.pdf.GetY()
	d.pdf.Line(10, y, 200, y)
	d.pdf.Ln(3)
}

func (d *contractDoc) text(text string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Arial", style, 10)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(170, 5, d.tr(text), "", "L", false)
}

func (d *contractDoc) paragraph(text string) {
	d.text(text, false)
	d.pdf.Ln(2)
}

func (d *contractDoc) parties(info contractInfo, companyRole, candidateRole string) {
	d.sectionTitle("PARTIES AU CONTRAT")
	d.text(fmt.Sprintf("%s : %s", companyRole, info.companyName), true)
	d.text("Adresse : "+info.companyAddress, false)
	d.pdf.Ln(2)
	d.text(fmt.Sprintf("%s : %s", candidateRole, info.candidateName), true)
	d.text("Email : "+info.candidateEmail, false)
	d.pdf.Ln(3)
}

func (d *contractDoc) heading(title string, info contractInfo) {
	d.title(title)
	d.text("Date : "+info.contractDate, false)
	d.text("Réf : "+info.ref, false)
	d.pdf.Ln(3)
}

func (d *contractDoc) signatures(info contractInfo) {
	d.pdf.Ln(10)
	d.text("À Paris, le "+info.contractDate, false)
	d.pdf.Ln(5)
	d.text("L'Employeur                     Le Salarié", false)
	d.pdf.Ln(8)
	d.text("Signature :                     Signature :", false)
}

func monthlySalary(annual int) string {
	return fmt.Sprintf("%.2f", float64(annual)/12)
}

func (d *contractDoc) renderCDI(info contractInfo) {
	d.heading("CONTRAT DE TRAVAIL À DURÉE INDÉTERMINÉE (CDI)", info)
	d.parties(info, "L'Entreprise", "Le Salarié")

	d.sectionTitle("ARTICLE 1 - ENGAGEMENT")
	d.paragraph(fmt.Sprintf(
		"L'Employeur engage le Salarié en qualité de %s, à compter du %s. Le contrat est conclu pour une durée indéterminée.",
		info.position, info.startDate))

	d.sectionTitle("ARTICLE 2 - FONCTIONS")
	d.paragraph(fmt.Sprintf(
		"Le Salarié exercera les fonctions de %s. Il sera chargé notamment de : participer aux projets, contribuer à l'amélioration continue, collaborer avec les équipes, respecter les directives.",
		info.position))

	d.sectionTitle("ARTICLE 3 - RÉMUNÉRATION")
	d.paragraph(fmt.Sprintf(
		"En contrepartie, le Salarié percevra une rémunération brute annuelle de %d euros. Soit un salaire mensuel brut de %s euros. Versement mensuel par virement bancaire.",
		info.salary, monthlySalary(info.salary)))

	d.sectionTitle("ARTICLE 4 - DURÉE DU TRAVAIL")
	d.paragraph("La durée hebdomadaire est fixée à 35 heures du lundi au vendredi. Horaires : 9h00-17h00 avec 1h de pause.")

	d.sectionTitle("ARTICLE 5 - PÉRIODE D'ESSAI")
	d.paragraph("Le contrat est conclu sous réserve d'une période d'essai de 3 mois, renouvelable une fois. Il pourra être rompu sans indemnité pendant cette période.")

	d.sectionTitle("ARTICLE 6 - CONGÉS PAYÉS")
	d.paragraph("Le Salarié bénéficie de congés payés conformément à la législation, soit 2,5 jours ouvrables par mois.")

	d.sectionTitle("ARTICLE 7 - CONFIDENTIALITÉ")
	d.paragraph("Le Salarié s'engage à observer la plus stricte confidentialité sur les informations relatives au travail.")

	d.sectionTitle("ARTICLE 8 - CLAUSE DE NON-CONCURRENCE")
	d.paragraph("Pendant 12 mois après la cessation du contrat, le Salarié s'interdit d'exercer une activité concurrente.")

	d.signatures(info)
}

func (d *contractDoc) renderCDD(info contractInfo) {
	d.heading("CONTRAT DE TRAVAIL À DURÉE DÉTERMINÉE (CDD)", info)
	d.parties(info, "L'Entreprise", "Le Salarié")

	d.sectionTitle("ARTICLE 1 - ENGAGEMENT")
	d.paragraph(fmt.Sprintf(
		"L'Employeur engage le Salarié en qualité de %s. Le contrat est conclu pour une durée déterminée du %s au %s.",
		info.position, info.startDate, info.endDate))

	d.sectionTitle("ARTICLE 2 - RÉMUNÉRATION")
	d.paragraph(fmt.Sprintf(
		"Rémunération brute annuelle : %d euros. Salaire mensuel brut : %s euros.",
		info.salary, monthlySalary(info.salary)))

	d.sectionTitle("ARTICLE 3 - DURÉE DU TRAVAIL")
	d.paragraph("Durée hebdomadaire : 35 heures. Horaires : Lundi au Vendredi, 9h00-17h00.")

	d.sectionTitle("ARTICLE 4 - FIN DE CONTRAT")
	d.paragraph("À l'échéance du terme, le Salarié percevra une indemnité de fin de contrat égale à 10% de la rémunération brute totale versée.")

	d.signatures(info)
}

func (d *contractDoc) renderInternship(info contractInfo) {
	d.heading("CONVENTION DE STAGE", info)
	d.parties(info, "L'Entreprise", "Le Stagiaire")

	d.sectionTitle("DÉTAILS DU STAGE")
	d.paragraph(fmt.Sprintf(
		"Poste : %s\nDate de début : %s\nDurée : 6 mois\nGratification mensuelle : %s euros",
		info.position, info.startDate, monthlySalary(info.salary)))

	d.signatures(info)
}

func (d *contractDoc) renderFreelance(info contractInfo) {
	d.heading("CONTRAT DE PRESTATION DE SERVICE", info)
	d.parties(info, "Le Client", "Le Prestataire")

	d.sectionTitle("DÉTAILS DE LA MISSION")
	d.paragraph(fmt.Sprintf(
		"Mission : %s\nDate de début : %s\nRémunération : %d euros HT par an",
		info.position, info.startDate, info.salary))

	d.signatures(info)
}
