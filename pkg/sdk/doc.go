// Package assessrank provides an embeddable Go client for ranking an
// assessment catalog against free-text queries with TF-IDF cosine
// similarity and for measuring ranking quality with Recall@k and MAP@k.
//
// The client works fully in memory. Connecting Valkey or Redis adds a
// shared cache of ranked results keyed by the fitted catalog.
//
// # Ranking
//
//	client, _ := assessrank.New(ctx)
//	_ = client.LoadFile(ctx, "data/assessments.json")
//	recs, _ := client.Recommend(ctx, "java developer with collaboration skills", 5)
//
// # Evaluation
//
//	report, _ := client.Evaluate(ctx, []assessrank.Case{
//	    {Query: "python sql analyst", RelevantNames: []string{"Python (New)", "SQL Server (New)"}},
//	}, 10)
//	fmt.Println(report.MeanRecall, report.MAP)
package assessrank
