// Package literotica implements providers.Scraper for Literotica stories
// and series. Series pages are recognized by their works list; anything
// else is treated as a standalone story page.
package literotica
