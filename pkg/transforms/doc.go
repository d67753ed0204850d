// Package transforms collects named operations into a deterministic
// execution order.
//
// A processing type lists its operations explicitly, each with a set of
// integer attributes such as an "order" tag:
//
//	func (p *RidesProcessor) Declarations() []transforms.Declaration[pipeline.Operation] {
//		return transforms.NewSet[pipeline.Operation]().
//			Add("parse_dates", p.parseDates, transforms.Order(1)).
//			Add("drop_tests", p.dropTests, transforms.Order(2)).
//			Add("debug_dump", p.dump).
//			Declarations()
//	}
//
// Collect keeps the declarations carrying the requested tag and sorts them
// by its value. Declarations without the tag are left out.
package transforms
