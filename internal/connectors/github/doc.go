// Package github implements a search collator for Markdown files hosted in
// GitHub repositories.
//
// For each configured source (an owner and a repository) the collator runs
// the code search query "extension:md repo:{owner}/{repo}", walks the result
// pages and downloads every matched file in raw form. Each file becomes one
// [domain.Document] whose location is the file's browsable URL.
//
// # Architecture
//
// The package follows the driven port pattern defined in
// [driven.DocumentCollatorFactory]. It comprises the following components:
//
//   - Factory: holds the validated configuration and hands out collators
//   - Collator: a lazy, pull-based iterator over one collation run
//   - Client: handles GitHub API communication with proactive throttling
//   - Register: wires the factory into an index registry from config
//
// # Configuration
//
// The collator reads the backend.search.github section:
//
//   - sources: array of tables with owner and repo keys. Required.
//   - apiToken: personal access token. Without it nothing is indexed.
//   - baseUrl: API origin. Default: https://api.github.com.
//   - maxPages: pagination bound per source. Default: 100.
//   - requestsPerSecond: proactive throttle. Default: unthrottled.
//   - timeout: per-request timeout. Default: 30s.
//   - schedule: frequency, timeout and initialDelay of the index task.
//
// # Pagination
//
// Pages are requested from 1 upwards while GitHub reports incomplete
// results. The page equal to maxPages is never requested, so a source
// contributes at most maxPages-1 searches.
//
// # Error Handling
//
// Errors never surface to the consumer of the stream. They are logged and
// end the run, after which the iterator reports no further documents:
//
//   - 401 Unauthorized: "Github API - unauthorized request"
//   - 403 Forbidden and 429: "Github API rate limit exceeded"
//   - Other search failures: "Github code search failed"
//
// Authentication and rate limit failures also stop all remaining sources.
// A file whose content cannot be fetched for any other reason is skipped.
//
// # Example Usage
//
//	factory := github.NewFactory(github.FactoryOptions{
//	    Sources:  []domain.Source{{Owner: "backstage", Repo: "backstage"}},
//	    APIToken: token,
//	    Logger:   log,
//	})
//
//	it, err := factory.GetCollator(ctx)
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//
//	for doc := range driven.Documents(ctx, it) {
//	    // Index document
//	}
package github
