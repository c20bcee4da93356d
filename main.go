// go_curator — content-curation pipeline.
//
// Pulls videos, podcasts, and articles from configured sources, extracts
// transcripts, rewrites them into structured summaries with an LLM, stores
// everything locally, and syncs the results into a Feishu Bitable table and
// a static-website data file.
package main

import "github.com/anatolykoptev/go_curator/cmd"

func main() {
	cmd.Execute()
}
