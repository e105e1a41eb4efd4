package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)
	quietStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"webook", "Browse and write posts (interactive TUI)"},
		{"webook login [email]", "Log in with email and password"},
		{"webook logout", "Clear your local session"},
		{"webook whoami", "Show the logged-in account"},
		{"webook version", "Show version"},
		{"webook help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", titleStyle.Render("W E B O O K"))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), quietStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  %s\n\n", quietStyle.Render("Settings come from WEBOOK_* variables or a .env file."))
}

func printGreeting(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n\n%s\n\n", titleStyle.Render("WEBOOK"), quietStyle.Render("Not logged in. To start: webook login"))
}
