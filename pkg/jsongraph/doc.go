// Package jsongraph turns a JSON document into positioned graph elements.
//
// A [Builder] maps a document onto a [tree.Node] tree in one depth-first
// pass: every object member and array element becomes a child named by its
// key or index, and every scalar becomes a leaf. [Builder.Get] then lays the
// tree out and returns the node and edge records.
//
// # Usage
//
//	b, err := jsongraph.FromSource("sample.json")
//	if err != nil {
//	    return err // PARSE_ERROR or IO_ERROR
//	}
//	elements := b.Get(tree.Unlimited)
//	collapsed := b.Get(2) // expand two container levels only
//
// Documents already in memory go through [New] (a [value.Value]) or
// [FromBytes]. Files ending in .yaml or .yml are read as YAML.
//
// # IDs
//
// Node IDs come from [tree.ProcessIDs] unless [WithIDs] supplies another
// generator, so two builders in one process never share an ID.
package jsongraph
