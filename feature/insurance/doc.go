// Package insurance checks listings' insurance histories against a condition set.
//
// The Service fetches histories through the marketplace client, evaluates them
// with reconcile.CheckConditions and filters a batch of listings before they are
// reconciled. The Handler exposes single checks at GET /insurance/:carID.
package insurance
