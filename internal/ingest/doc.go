// Package ingest brings raw descriptions into the editor.
//
// Descriptions come from three places: the describer service, which turns a
// sketch image into a description over HTTP; a local JSON file; and a file
// watcher that re-reads that file when it changes. Every source yields an
// unstamped *screen.Screen or an *IngestError. Callers pass the result to
// editor.Session.Ingest, which stamps ids, or to IngestFailed.
//
//	client := ingest.NewClient("http://127.0.0.1:8000")
//	doc, err := client.Describe(ctx, "sketch.png", "image/png", data)
//	if err != nil {
//	    notice := session.IngestFailed("upload", err)
//	    ...
//	}
//	session.Ingest("upload", doc)
//
// Describer responses are often model output. When the description text is
// not a bare JSON object, the span between the first '{' and the last '}' is
// parsed instead.
package ingest
