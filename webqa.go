// Package webqa provides a personal, CLI-based question answering tool.
// It searches the web through a metered search API, extracts the result
// pages, selects the most relevant passage, and runs question answering
// inference over it. Answers, search results, and pages are cached locally
// so that repeated questions never spend search quota twice.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, brave/, gemini/).
package webqa
