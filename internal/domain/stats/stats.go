package stats

// Statistics summarizes the archived corpus.
// UniqueUsers and UniqueGuilds come from a cardinality estimate and are approximate.
type Statistics struct {
	TotalMessages int64
	UniqueUsers   int64
	UniqueGuilds  int64
}
