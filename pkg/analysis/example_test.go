package analysis_test

import (
	"fmt"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/analysis"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/supercluster"
)

func ExampleBuildViews() {
	// intro → loops → recursion, all hard prerequisites
	intro := supercluster.MustParseNodeID("cs__intro")
	loops := supercluster.MustParseNodeID("cs__loops")
	recursion := supercluster.MustParseNodeID("cs__recursion")

	g := supercluster.New()
	_ = g.AddNode(supercluster.Node{ID: intro, Title: "Intro"})
	_ = g.AddNode(supercluster.Node{ID: loops, Title: "Loops"})
	_ = g.AddNode(supercluster.Node{ID: recursion, Title: "Recursion"})
	_ = g.AddEdge(intro, loops, supercluster.All)
	_ = g.AddEdge(loops, recursion, supercluster.All)

	views, err := analysis.BuildViews(supercluster.NewRooted(g, intro))
	if err != nil {
		panic(err)
	}
	fmt.Println("recursion needs:", views.Dependency.Reachable(recursion))
	fmt.Println("intro unlocks:", views.Dependent.Reachable(intro))
	// Output:
	// recursion needs: [cs__intro cs__loops]
	// intro unlocks: [cs__loops cs__recursion]
}
