// Package treejson is a JSON debugging sink for a distree.DistributedTree,
// supplementing the distilled design with the reference implementation's own
// Export/Summarize tooling: a compact dump of every leaf plus a templated
// human-readable summary, both written with encoding/json and text/template
// rather than a bespoke format.
package treejson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/flier/octree/distree"
	"github.com/flier/octree/localtree"
	"github.com/flier/octree/point"
)

type jsonLeaf struct {
	Index     int    `json:"index"`
	Key       string `json:"key"`
	Level     uint8  `json:"level"`
	Particles int    `json:"particles"`
}

type jsonDomain struct {
	Origin   [3]float64 `json:"origin"`
	Diameter [3]float64 `json:"diameter"`
}

type jsonTree struct {
	Balanced bool                 `json:"balanced"`
	Domain   jsonDomain           `json:"domain"`
	Stats    localtree.Statistics `json:"stats"`
	Leaves   []jsonLeaf           `json:"leaves"`
}

// Export dumps t to path as JSON: one entry per leaf key, carrying the
// particle count assigned to it, alongside the tree's domain and build
// statistics. compact disables indentation.
func Export(path string, t *distree.DistributedTree, compact bool) error {
	counts := make([]int, len(t.Keys))
	for _, p := range t.Points {
		counts[point.AssignLeaf(t.Keys, p)]++
	}

	leaves := make([]jsonLeaf, len(t.Keys))
	for i, k := range t.Keys {
		leaves[i] = jsonLeaf{
			Index:     i,
			Key:       k.String(),
			Level:     k.Level(),
			Particles: counts[i],
		}
	}

	doc := jsonTree{
		Balanced: t.Balanced,
		Domain: jsonDomain{
			Origin:   t.Domain.Origin,
			Diameter: t.Domain.Diameter,
		},
		Stats:  t.Stats,
		Leaves: leaves,
	}

	var (
		out []byte
		err error
	)
	if compact {
		out, err = json.Marshal(doc)
	} else {
		out, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("treejson: marshal: %w", err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("treejson: write %s: %w", path, err)
	}

	return nil
}

const summaryTemplate = `The tree holds {{.Stats.NumberOfKeys}} leaves ({{if .Balanced}}balanced{{else}}unbalanced{{end}}) to level {{.Stats.MaxLevel}}:
 - {{.Stats.NumberOfParticles}} particles total,
 - {{.Stats.MinParticlesPerLeaf}} to {{.Stats.MaxParticlesPerLeaf}} particles per leaf,
 - a mean of {{printf "%.2f" .Stats.AvgParticlesPerLeaf}} particles per leaf.

Build took {{.Stats.CreationTime}}.
`

// Summarize renders a short human-readable report of t to w, in the style of
// the reference implementation's own templated Summarize output.
func Summarize(w io.Writer, t *distree.DistributedTree) error {
	tmpl, err := template.New("summary").Parse(summaryTemplate)
	if err != nil {
		return fmt.Errorf("treejson: parse template: %w", err)
	}

	doc := struct {
		Balanced bool
		Stats    localtree.Statistics
	}{Balanced: t.Balanced, Stats: t.Stats}

	if err := tmpl.Execute(w, doc); err != nil {
		return fmt.Errorf("treejson: execute template: %w", err)
	}

	return nil
}
