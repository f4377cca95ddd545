// Package kbsearch embeds the knowledge-base search engine in-process.
//
// The client loads a corpus (the built-in seed or a YAML seed file), keeps
// it in memory and answers keyword searches and autocomplete requests.
// With WithRedis or WithValkey the corpus and view counters are persisted
// and reloaded on the next start.
//
//	client, err := kbsearch.New(ctx, kbsearch.WithSeedFile("articles.yaml"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, kbsearch.SearchRequest{Query: "refund", PageSize: 5})
//	for _, a := range resp.Articles {
//	    fmt.Println(a.Title, a.RelevanceScore)
//	}
//
//	suggestions, _ := client.Suggest(ctx, "ref", 5)
package kbsearch
