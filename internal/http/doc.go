// Package http provides the HTTP client used to fetch cover art given as
// a URL.
//
// # Basic Usage
//
//	client := http.NewClient()
//	if http.IsURL(ref) {
//	    data, err := client.DownloadBytes(ctx, ref)
//	}
package http
