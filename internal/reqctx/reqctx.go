// Package reqctx carries request-scoped caller identity explicitly through
// the pipeline, instead of relying on ambient per-request globals. See
// SPEC_FULL.md "Request-scoped identity propagation".
package reqctx

// RequestContext bundles everything the submission and billing pipelines
// need to know about the calling request.
type RequestContext struct {
	// CorrelationID is generated or echoed per request and logged throughout.
	CorrelationID string

	// ClientIP is the first well-formed IPv4/IPv6 address extracted from
	// cf-connecting-ip or x-forwarded-for (see §4.4 step 2).
	ClientIP string

	UserAgent string
	Referer   string

	// AccessToken is the raw bearer token for authenticated routes; empty
	// for the public submission surface.
	AccessToken string

	// ActorUserID is the subject claim of a validated access token, if any.
	ActorUserID string

	// WorkspaceID is the tenant the request is scoped to, once resolved.
	WorkspaceID string
}
