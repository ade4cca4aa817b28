// Package newsgather gathers news articles surfaced by a trending-topics
// search and turns each article page into clean Markdown for storage or
// language-model consumption.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package newsgather
