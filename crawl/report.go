package crawl

import (
	"github.com/fwojciec/harvest"
)

// Row is one deduplicated contact in a crawl response. Source is the
// first page the value was seen on within the crawl.
type Row struct {
	Type   harvest.ContactType `json:"type"`
	Value  string              `json:"value"`
	Source string              `json:"source"`
}

// Summary describes the outcome of one crawl. TotalURLsScraped counts
// PageResults without an error.
type Summary struct {
	TotalEmails      int `json:"total_emails"`
	TotalPhones      int `json:"total_phones"`
	TotalURLsScraped int `json:"total_urls_scraped"`
}

// Aggregate flattens crawl results into the response rows, deduplicated
// by value across the whole crawl, keeping the first source seen. Failed
// pages contribute nothing. Iteration follows result order, so equal
// inputs produce equal output.
func Aggregate(results []harvest.PageResult) ([]Row, Summary) {
	rows := []Row{}
	var summary Summary

	seenEmails := make(map[string]struct{})
	seenPhones := make(map[string]struct{})

	for _, result := range results {
		if result.Failed() {
			continue
		}
		summary.TotalURLsScraped++

		for _, email := range result.Emails {
			if _, ok := seenEmails[email]; ok {
				continue
			}
			seenEmails[email] = struct{}{}
			rows = append(rows, Row{Type: harvest.ContactEmail, Value: email, Source: result.URL})
		}

		for _, phone := range result.Phones {
			if _, ok := seenPhones[phone]; ok {
				continue
			}
			seenPhones[phone] = struct{}{}
			rows = append(rows, Row{Type: harvest.ContactPhone, Value: phone, Source: result.URL})
		}
	}

	summary.TotalEmails = len(seenEmails)
	summary.TotalPhones = len(seenPhones)

	return rows, summary
}

// Flatten converts crawl results into contact records for persistence:
// one record per extracted value, carrying the page's URL and fetch
// timestamp. Failed pages contribute nothing. Per-value deduplication is
// the dataset store's job, not Flatten's.
func Flatten(results []harvest.PageResult) []harvest.ContactRecord {
	var records []harvest.ContactRecord
	for _, result := range results {
		if result.Failed() {
			continue
		}
		for _, email := range result.Emails {
			records = append(records, harvest.ContactRecord{
				Timestamp: result.FetchedAt,
				Type:      harvest.ContactEmail,
				Value:     email,
				SourceURL: result.URL,
			})
		}
		for _, phone := range result.Phones {
			records = append(records, harvest.ContactRecord{
				Timestamp: result.FetchedAt,
				Type:      harvest.ContactPhone,
				Value:     phone,
				SourceURL: result.URL,
			})
		}
	}
	return records
}
