// Package domain contains the core model of the cvx client: platform entities,
// workspace configuration, the local session and error classification.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, or the filesystem. Infra adapters map into/from these types.
package domain
