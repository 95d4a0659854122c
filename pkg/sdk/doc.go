// Package aggspec embeds the saved search aggregation editor in a Go program.
//
// A Client keeps one editor per saved search. Every change to a tree is
// published as a snapshot: stored in Valkey or Redis when configured, and
// handed to any subscriber registered with WithSubscriber.
//
//	client, _ := aggspec.New(ctx,
//	    aggspec.WithValkey("localhost:6379", ""),
//	    aggspec.WithCatalogFile("config/catalog.yaml"),
//	    aggspec.WithElasticsearch("http://localhost:9200", "products"),
//	)
//	ed, _ := client.Editor(ctx, "search-42")
//	_, _ = ed.Add(ctx)                          // opens a top-level term
//	_, _ = ed.SelectField(ctx, "category")      // commits it
//	_, _ = ed.OpenNew(ctx, true, aggspec.KindSum)
//	_, _ = ed.SelectField(ctx, "price")         // nested sum, committed
//	body, _ := ed.Render()                      // Elasticsearch aggs body
//
// Without WithValkey or WithRedis specifications live in memory only.
package aggspec
