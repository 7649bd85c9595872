package ports

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(method, route, status string)
	RecordHTTPRequestDuration(method, route, status string, duration time.Duration)

	IncrementGRPCRequests(method, status string)
	RecordGRPCRequestDuration(method, status string, duration time.Duration)

	IncrementLedgerCalls(operation string, success bool)
	RecordLedgerCallDuration(operation string, duration time.Duration)

	IncrementContentOperations(operation string, success bool)
	RecordContentOperationDuration(operation string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementCacheHits()
	IncrementCacheMisses()
	RecordCacheOperationDuration(operation string, duration time.Duration)

	IncrementPostOperations(operation string, success bool)
	SetFeedPosts(count int)
	IncrementFeedRefreshes(result string)

	SetServiceHealth(healthy bool)
}
