// Package msgsearch embeds the archived message search engine in a Go program
// without running the HTTP API.
//
// The client talks to the same Elasticsearch partitions and Discord directory
// as the server and applies the same validation and pagination rules.
//
//	client, _ := msgsearch.New(ctx,
//	    msgsearch.WithElasticCloud(cloudID, "elastic", password),
//	    msgsearch.WithDiscordTokens(os.Getenv("DISCORD_BOT_TOKEN")),
//	)
//	defer client.Close()
//
//	page, _ := client.Messages().Search(ctx, msgsearch.Query{
//	    Content: "hello world",
//	    GuildID: "81384788765712384",
//	})
//	authors := client.Users().GetMany(ctx, page.AuthorIDs())
//
// Statistics over the whole archive:
//
//	stats, _ := client.Stats(ctx)
package msgsearch
