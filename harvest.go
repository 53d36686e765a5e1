// Package harvest provides a concurrent contact-scraping pipeline.
// It expands seed URLs into their same-domain internal links, fetches the
// pages concurrently, extracts email addresses and phone numbers from the
// visible text, and merges the results into a persisted, deduplicated
// dataset.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gin/).
package harvest
