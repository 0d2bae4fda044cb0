// Package dataset generates the synthetic operating-systems survey data
// used by the benchmark.
//
// Each row describes one survey respondent: who they are, where they live,
// which OS they use, a handful of yes/no-ish varchar flags and a free-text
// reason for their OS choice. Trait distributions depend on the OS:
//
//   - mac users are always insane, mostly not rich, and give bad reasons
//   - windows users are 20% problematic (insane, rich or not nice)
//   - linux users are mostly nice and give good reasons
//
// Generation is deterministic for a given seed.
package dataset

import (
	"fmt"
	"math/rand/v2"
)

// Row is a single survey record. Field order matches the CSV header and
// the op_systems table columns.
type Row struct {
	Name    string
	Country string
	State   string
	Age     int
	OS      string
	Rich    string
	Insane  string
	Nice    string
	Reason  string
}

// Generator produces survey rows from a seeded source.
// A Generator is not safe for concurrent use; use GenerateParallel for
// sharded generation.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded for reproducible output.
func New(seed uint64) *Generator {
	return NewShard(seed, 0)
}

// NewShard creates a Generator for one shard of a parallel run.
// Different shards with the same seed produce independent streams.
func NewShard(seed uint64, shard uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, shard))}
}

// Next generates one row.
func (g *Generator) Next() Row {
	os := g.pickOS()

	switch os {
	case OSMac:
		return g.macUser()
	case OSWindows:
		return g.windowsUser()
	default:
		return g.linuxUser()
	}
}

// Rows generates n rows.
func (g *Generator) Rows(n int) []Row {
	if n <= 0 {
		return nil
	}
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = g.Next()
	}
	return rows
}

// pickOS selects an OS with a slight bias toward linux and windows.
func (g *Generator) pickOS() string {
	r := g.rng.Float64()
	switch {
	case r < 0.35:
		return OSLinux
	case r < 0.70:
		return OSWindows
	default:
		return OSMac
	}
}

// macUser builds a mac profile: always insane, mostly not rich, bad reasons.
func (g *Generator) macUser() Row {
	r := g.rng.Float64()
	nice := "yes"
	switch {
	case r < 0.70:
		nice = "yes"
	case r < 0.85:
		nice = "sometimes"
	default:
		nice = "no"
	}

	return Row{
		Name:    g.name(),
		Country: g.country(0.8),
		State:   g.state(),
		Age:     g.age(),
		OS:      OSMac,
		Rich:    g.rich(0.15, false),
		Insane:  g.insane(true),
		Nice:    nice,
		Reason:  g.reason(OSMac),
	}
}

// windowsUser builds a windows profile: 20% problematic.
func (g *Generator) windowsUser() Row {
	insane := false
	forceRich := false
	nice := "yes"

	if g.rng.Float64() < 0.2 {
		if g.rng.Float64() < 0.5 {
			insane = true
		}
		if g.rng.Float64() < 0.5 {
			forceRich = true
		}
		nice = "no"
	}

	return Row{
		Name:    g.name(),
		Country: g.country(0.7),
		State:   g.state(),
		Age:     g.age(),
		OS:      OSWindows,
		Rich:    g.rich(0.2, forceRich),
		Insane:  g.insane(insane),
		Nice:    nice,
		Reason:  g.reason(OSWindows),
	}
}

// linuxUser builds a linux profile: mostly lucid and nice.
func (g *Generator) linuxUser() Row {
	insane := g.rng.Float64() < 0.15

	return Row{
		Name:    g.name(),
		Country: g.country(0.7),
		State:   g.state(),
		Age:     g.age(),
		OS:      OSLinux,
		Rich:    g.rich(0.2, false),
		Insane:  g.insane(insane),
		Nice:    "yes",
		Reason:  g.reason(OSLinux),
	}
}

func (g *Generator) name() string {
	// 70% Brazilian names, 30% global.
	if g.rng.Float64() < 0.7 {
		return g.pickString(brazilianFirstNames) + " " + g.pickString(brazilianLastNames)
	}
	return g.pickString(globalFirstNames) + " " + g.pickString(globalLastNames)
}

func (g *Generator) country(brazilBias float64) string {
	if g.rng.Float64() < brazilBias {
		return "brazil"
	}
	return g.pickString(countries)
}

func (g *Generator) state() string {
	return g.pickString(states)
}

func (g *Generator) age() int {
	return 18 + g.rng.IntN(58) // 18..75
}

// rich picks an is_rich flag. forceRich short-circuits to "yes".
func (g *Generator) rich(richChance float64, forceRich bool) string {
	if forceRich || g.rng.Float64() < richChance {
		return "yes"
	}
	return g.pickString(notRichValues)
}

// insane picks an is_insane flag from the matching vocabulary.
func (g *Generator) insane(isInsane bool) string {
	if isInsane {
		return g.pickString(insaneYesValues)
	}
	return g.pickString(insaneNoValues)
}

// reason produces the free-text reason column. Half the rows use the fixed
// survey phrases, half use a generated template with random filler words.
func (g *Generator) reason(os string) string {
	if g.rng.Float64() < 0.5 {
		switch os {
		case OSMac:
			return g.pickString(badReasonsMac)
		case OSWindows:
			return g.pickString(goodReasonsWindows)
		default:
			return g.pickString(goodReasonsLinux)
		}
	}
	return g.templateReason(os)
}

func (g *Generator) templateReason(os string) string {
	action := g.pickString(actionWords)
	adjective := g.pickString(adjectiveWords)
	tech := g.pickString(techWords)

	switch os {
	case OSMac:
		switch g.rng.IntN(3) {
		case 0:
			return fmt.Sprintf("Chose mac because the %s hardware felt inspiring during %s", adjective, action)
		case 1:
			return fmt.Sprintf("Believes mac helps with %s, for some reason", tech)
		default:
			return fmt.Sprintf("Mac felt more premium while dealing with %s", action)
		}
	case OSWindows:
		switch g.rng.IntN(3) {
		case 0:
			return fmt.Sprintf("Uses windows for improved %s and more %s workflows", action, adjective)
		case 1:
			return fmt.Sprintf("Feels more productive on windows while handling %s", action)
		default:
			return fmt.Sprintf("Windows tooling fits the current %s stack", tech)
		}
	default:
		switch g.rng.IntN(3) {
		case 0:
			return fmt.Sprintf("Linux chosen for %s efficiency and stability", tech)
		case 1:
			return fmt.Sprintf("Believes linux improves %s and reliability", action)
		default:
			return fmt.Sprintf("Linux gives more control over %s and system behavior", tech)
		}
	}
}

func (g *Generator) pickString(values []string) string {
	return values[g.rng.IntN(len(values))]
}
