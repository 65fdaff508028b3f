package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// TEXT BUILDER: Prose answers
// ============================================================================

// HelpText is returned when no intent matches.
const HelpText = `I can help you with queries like: "Who owns the most books?", "Which is the most popular book?", "Show the five most expensive books", "Books by genre", "Reading statistics", or "Summarize reading habits"`

// Fixed replies for empty inputs.
const (
	NoBooksText         = "No books found."
	NoReadingHabitsText = "No reading habits available."
)

// buildMostBooksText names the owner with the largest shelf.
func buildMostBooksText(in input) Result {
	top, ok := CountByOwner(in.books).Top()
	if !ok {
		return NewText(NoBooksText)
	}
	name := ownerName(in, top.Key)
	return NewText(fmt.Sprintf("%s owns the most books with %d books.", name, top.N))
}

// buildPopularText names the title held by the most users.
func buildPopularText(in input) Result {
	top, ok := CountByTitle(in.books).Top()
	if !ok {
		return NewText(NoBooksText)
	}
	return NewText(fmt.Sprintf("\"%s\" is the most popular book, owned by %d user(s).", top.Key, top.N))
}

// buildSummaryText flattens the acting user's insights into one paragraph.
func buildSummaryText(in input) Result {
	summary := strings.Join(GenerateInsights(in.books, in.actor), " ")
	if strings.TrimSpace(summary) == "" {
		return NewText(NoReadingHabitsText)
	}
	return NewText(summary)
}

func buildHelpText(input) Result {
	return NewText(HelpText)
}
