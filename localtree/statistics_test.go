package localtree_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/flier/octree/domain"
	"github.com/flier/octree/localtree"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/point"
)

func TestSummarize(t *testing.T) {
	Convey("Given a uniform 8-leaf tree and points spread across it", t, func() {
		rootChildren := morton.Root.Children()
		keys := localtree.CompleteGlobalTree(rootChildren[:])
		d := domain.FromLocalPoints([][3]float64{{0, 0, 0}, {1, 1, 1}})

		coords := [][3]float64{
			{0.01, 0.01, 0.01},
			{0.02, 0.02, 0.02},
			{0.99, 0.99, 0.99},
		}
		pts := point.Encode(coords, 0, d, morton.LMax)

		Convey("Summarize reports particle and leaf counts", func() {
			stats := localtree.Summarize(keys, pts, time.Now())

			So(stats.NumberOfParticles, ShouldEqual, 3)
			So(stats.NumberOfLeafs, ShouldEqual, len(keys))
			So(stats.MinParticlesPerLeaf+stats.MaxParticlesPerLeaf, ShouldBeGreaterThanOrEqualTo, 0)
			So(stats.AvgParticlesPerLeaf, ShouldBeGreaterThan, 0)
		})
	})
}
