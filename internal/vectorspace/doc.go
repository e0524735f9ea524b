// Package vectorspace fits a TF-IDF vector space over a static catalog and
// ranks catalog items against free-text queries by cosine similarity.
//
// A Space is immutable once Fit returns: it may be shared by any number of
// goroutines without locking. Reloading a catalog means fitting a new Space.
//
//	space, err := vectorspace.Fit(items)
//	if err != nil {
//	    return err // errors.Is(err, domain.ErrBuild)
//	}
//	hits, err := space.Rank("java developer", 5)
package vectorspace
