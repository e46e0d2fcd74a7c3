package tui

import "strings"

type aboutModel struct{}

func newAboutModel() aboutModel {
	return aboutModel{}
}

func (m aboutModel) View(th theme) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("   " + th.title.Render("About Dermalyze") + "\n\n")
	sb.WriteString("   " + th.normal.Render("Dermalyze screens skin images with a trained classification model") + "\n")
	sb.WriteString("   " + th.normal.Render("and keeps a private history of your past analyses.") + "\n\n")
	sb.WriteString("   " + th.normal.Render("Upload a clear, well-lit photo of the affected area. The result") + "\n")
	sb.WriteString("   " + th.normal.Render("shows the most likely condition and how confident the model is.") + "\n\n")
	sb.WriteString("   " + th.warning.Render("Screening results are not a medical diagnosis.") + "\n")
	sb.WriteString("   " + th.dim.Render("Always consult a qualified dermatologist for treatment decisions.") + "\n")
	return sb.String()
}
