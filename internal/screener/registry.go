package screener

import (
	"fmt"
	"sort"
)

// DefaultStrategy is used when none is configured.
const DefaultStrategy = "ema8-crossover-delayed"

// Params overrides strategy defaults; zero fields keep the default.
type Params struct {
	Short     int
	Long      int
	DaysDiff  int
	DaysDelay int
}

func (p Params) or(def Params) Params {
	if p.Short > 0 {
		def.Short = p.Short
	}
	if p.Long > 0 {
		def.Long = p.Long
	}
	if p.DaysDiff > 0 {
		def.DaysDiff = p.DaysDiff
	}
	if p.DaysDelay > 0 {
		def.DaysDelay = p.DaysDelay
	}
	return def
}

var registry = map[string]func(Params) Strategy{
	"ema-trend": func(p Params) Strategy {
		p = p.or(Params{Short: 8, Long: 50})
		return EMATrend{Short: p.Short, Long: p.Long}
	},
	"ema-crossover": func(p Params) Strategy {
		p = p.or(Params{Short: 8, Long: 21, DaysDiff: 2})
		return EMACrossover{Short: p.Short, Long: p.Long, DaysDiff: p.DaysDiff, DaysDelay: p.DaysDelay}
	},
	"ema8-crossover": func(p Params) Strategy {
		p = p.or(Params{DaysDiff: 2})
		return EMA8Crossover{Label: "ema8-crossover", DaysDiff: p.DaysDiff, DaysDelay: p.DaysDelay, SpurtBars: 1}
	},
	"ema8-crossover-trend": func(p Params) Strategy {
		p = p.or(Params{DaysDiff: 2})
		return EMA8Crossover{Label: "ema8-crossover-trend", DaysDiff: p.DaysDiff, DaysDelay: p.DaysDelay,
			SpurtBars: 1, RequireTrend: true}
	},
	"ema8-crossover-reversal": func(p Params) Strategy {
		p = p.or(Params{DaysDiff: 2})
		return EMA8Crossover{Label: "ema8-crossover-reversal", DaysDiff: p.DaysDiff, DaysDelay: p.DaysDelay,
			SpurtBars: 1, RequireReversal: true}
	},
	"ema8-crossover-delayed": func(p Params) Strategy {
		p = p.or(Params{DaysDiff: 5, DaysDelay: 8})
		return EMA8Crossover{Label: "ema8-crossover-delayed", DaysDiff: p.DaysDiff, DaysDelay: p.DaysDelay,
			SpurtBars: 3, RequireReversal: true}
	},
}

// New builds the named strategy.
func New(name string, p Params) (Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (known: %v)", name, Names())
	}
	return build(p), nil
}

// Names lists registered strategies in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
