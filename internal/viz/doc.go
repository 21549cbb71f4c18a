// Package viz renders analysis results for the terminal: asciigraph line
// charts and lipgloss-styled tables, coloured by a selectable [Theme].
//
// Everything here returns strings; callers decide where to print them.
package viz
