// Package projection turns loaded assessment platform entities into the JSON
// views served by the API.
//
// Every view is an independent contract: one response struct and one
// Projector method producing it. Similar looking responses, such as the three
// expert group shapes, are distinct types and change independently.
//
// Naming follows the entity first and the view second:
//
//	type KitStatisticsResponse struct {}
//	func (p *Projector) KitStatistics(ctx, kit) (*KitStatisticsResponse, error)
//
// Views never write. The only side effects are read queries issued through
// Store and assessment counts fetched through AssessmentCounter. All kit
// contents are read from the kit's current version only.
package projection
