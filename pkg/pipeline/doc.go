// Package pipeline runs tag-ordered table operations over one or more
// input datasets.
//
// A processor declares its operations once:
//
//	type cleaner struct{ pipeline.Base }
//
//	func (c *cleaner) Declarations() []transforms.Declaration[pipeline.Operation] {
//		return transforms.NewSet[pipeline.Operation]().
//			Add("fix_names", pipeline.ReplaceValue("names", "Tima", "Tim"), transforms.Order(1)).
//			Add("select", pipeline.SelectWithCrossings(c.Columns), transforms.Order(12)).
//			Declarations()
//	}
//
// and is executed with
//
//	p, err := pipeline.New(&cleaner{})
//	out, err := p.Run(pipeline.Named(pipeline.Entry("a", a), pipeline.Entry("b", b)), pipeline.Options{})
//
// Named and list inputs are concatenated by rows unless Options.Merge asks
// the processor to merge them itself through MergeDatasets.
package pipeline
