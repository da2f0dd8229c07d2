package jsongraph_test

import (
	"fmt"

	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

func ExampleBuilder_Get() {
	doc := []byte(`{"name": "value", "list": [1, 2]}`)
	b, err := jsongraph.FromBytes(doc, jsongraph.FormatJSON, jsongraph.WithIDs(tree.NewSequence()))
	if err != nil {
		panic(err)
	}

	elements := b.Get(tree.Unlimited)
	for _, n := range elements.Nodes {
		fmt.Printf("node %s %q expanded=%v x=%g y=%g\n",
			n.Data.ID, n.Data.Label, n.Data.Expanded, n.Position.X, n.Position.Y)
	}
	for _, e := range elements.Edges {
		fmt.Printf("edge %s->%s %q\n", e.Data.Source, e.Data.Target, e.Data.Label)
	}
	// Output:
	// node 1 "" expanded=true x=0 y=20
	// node 2 "value" expanded=false x=400 y=0
	// node 3 "list" expanded=true x=400 y=30
	// node 4 "1" expanded=false x=800 y=20
	// node 5 "2" expanded=false x=800 y=40
	// edge 1->2 " - name"
	// edge 3->4 "list - 0"
	// edge 3->5 "list - 1"
	// edge 1->3 " - list"
}

func ExampleBuilder_Get_depth() {
	doc := []byte(`{"a": {"b": {"c": 1}}}`)
	b, err := jsongraph.FromBytes(doc, jsongraph.FormatJSON, jsongraph.WithIDs(tree.NewSequence()))
	if err != nil {
		panic(err)
	}

	for _, n := range b.Get(1).Nodes {
		fmt.Printf("%q expanded=%v\n", n.Data.Label, n.Data.Expanded)
	}
	// Output:
	// "" expanded=true
	// "a" expanded=false
}
