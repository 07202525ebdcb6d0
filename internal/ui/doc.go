// Package ui holds the terminal styling shared by the sonix commands.
//
// Output is plain text decorated with [lipgloss] styles: headings ([Title]), status lines
// ([OK], [Err], [Warn]), muted hints ([Help]) and a progress [Bar] used while exporting.
// Styles degrade to plain text when the output is not a terminal.
package ui
