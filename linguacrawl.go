// Package linguacrawl provides a language-focused web crawler.
// It prioritizes fetching pages likely to be written in a configured set of
// target languages while still making progress on pages of unknown or
// off-target language.
//
// This package contains domain types and interfaces following the Standard
// Package Layout. Implementations live in subdirectories named after their
// primary dependency (e.g., sqlite/, goquery/, whatlanggo/).
package linguacrawl
