package openlibrary

import "fmt"

// CoverURL builds the cover image URL for a cover ID.
func (c *Client) CoverURL(coverID int, size CoverSize) (string, error) {
	if coverID <= 0 {
		return "", ErrNoCover
	}
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", c.coverBaseURL, coverID, size), nil
}

// CoverURLByISBN builds the cover image URL for an ISBN.
func (c *Client) CoverURLByISBN(isbn string, size CoverSize) (string, error) {
	if isbn == "" {
		return "", ErrNoCover
	}
	return fmt.Sprintf("%s/b/isbn/%s-%s.jpg", c.coverBaseURL, isbn, size), nil
}

// CoverCandidates returns the cover URLs to try for a document, most
// specific first: cover ID in medium then large, then the ISBN lookup.
func (c *Client) CoverCandidates(doc Doc) []string {
	var urls []string
	if url, err := c.CoverURL(doc.CoverID, CoverMedium); err == nil {
		urls = append(urls, url)
	}
	if url, err := c.CoverURL(doc.CoverID, CoverLarge); err == nil {
		urls = append(urls, url)
	}
	if url, err := c.CoverURLByISBN(doc.ISBN, CoverMedium); err == nil {
		urls = append(urls, url)
	}
	return urls
}

// WorkURL builds the public page URL for a work key.
// Keys come from the API with a leading slash, e.g. "/works/OL45883W".
func (c *Client) WorkURL(workKey string) string {
	return c.baseURL + workKey
}
