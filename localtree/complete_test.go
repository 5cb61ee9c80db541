package localtree_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/octree/localtree"
	"github.com/flier/octree/morton"
)

func assertSortedDisjoint(keys []morton.Key) {
	for i := 1; i < len(keys); i++ {
		So(keys[i-1], ShouldBeLessThan, keys[i])
		So(morton.IsAncestor(keys[i-1], keys[i]), ShouldBeFalse)
	}
}

func TestCompleteRegion(t *testing.T) {
	Convey("Given two adjacent leaves with a gap between them", t, func() {
		children := morton.Root.Children()
		a, b := children[0], children[7]

		Convey("CompleteRegion fills the gap without including a or b", func() {
			fill := localtree.CompleteRegion(a, b)
			So(fill, ShouldNotContain, a)
			So(fill, ShouldNotContain, b)
			So(fill, ShouldHaveLength, 6) // the remaining 6 siblings of a uniform level-1 split
		})
	})

	Convey("Given a coarse key whose subtree already reaches up to the upper bound", t, func() {
		Convey("CompleteRegion between the root and its own deepest-last descendant is empty", func() {
			fill := localtree.CompleteRegion(morton.Root, morton.Root.DeepestLastDescendant())
			So(fill, ShouldBeEmpty)
		})
	})

	Convey("Given equal or inverted bounds", t, func() {
		Convey("CompleteRegion returns nothing", func() {
			k := morton.New(morton.Anchor{X: 1, Y: 1, Z: 1}, 3)
			So(localtree.CompleteRegion(k, k), ShouldBeEmpty)
		})
	})
}

func TestCompleteGlobalTree(t *testing.T) {
	Convey("Given two seed leaves in different top-level octants", t, func() {
		children := morton.Root.Children()
		seeds := []morton.Key{children[0], children[7]}

		Convey("CompleteGlobalTree fills the gap and covers the whole domain", func() {
			out := localtree.CompleteGlobalTree(seeds)

			So(out, ShouldContain, children[0])
			So(out, ShouldContain, children[7])
			assertSortedDisjoint(out)
			So(out, ShouldHaveLength, 8)
		})
	})

	Convey("Given a single seed at the root", t, func() {
		Convey("CompleteGlobalTree returns just the root", func() {
			out := localtree.CompleteGlobalTree([]morton.Key{morton.Root})
			So(out, ShouldResemble, []morton.Key{morton.Root})
		})
	})
}

func TestCompleteLocalTreeWithBlockBounds(t *testing.T) {
	Convey("Given a rank owning only the first top-level octant's subtree", t, func() {
		octant := morton.Root.Children()[0]
		first := octant.DeepestFirstDescendant()
		last := octant.DeepestLastDescendant()

		Convey("Completing with one seed in the middle covers exactly that block", func() {
			seed := octant.Children()[4]
			out := localtree.CompleteLocalTree([]morton.Key{seed}, first, last)

			assertSortedDisjoint(out)
			So(out, ShouldContain, seed)

			for _, k := range out {
				So(morton.IsAncestor(octant, k) || k == octant, ShouldBeTrue)
			}
		})
	})
}
