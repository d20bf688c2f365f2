package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for CLI output.
var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // green
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // yellow
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // red
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray

	titleStyle = lipgloss.NewStyle().Bold(true)

	diffAddStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	diffDelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	diffHunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)
