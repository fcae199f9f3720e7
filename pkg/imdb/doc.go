// Package imdb fetches ratings exports from IMDb.
//
// A Client is configured once, including its session cookies, and is then
// shared read-only by every concurrent fetch. Fetch returns the raw CSV body
// or a classified *errors.Error; it never retries on its own.
//
//	client, err := imdb.NewClient(imdb.Options{Cookies: cookies, Timeout: time.Minute})
//	data, err := client.Fetch(ctx, p)
//	if err != nil {
//	    fmt.Println(errors.Reason(err))
//	}
package imdb
