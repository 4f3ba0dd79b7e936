package linker

import (
	"os"

	"github.com/google/pprof/profile"
)

// WriteTimeReport renders ctx.Timer's per-pass measurements as a
// pprof CPU profile (one sample per pass, weighted by its duration) so
// --time-report output can be inspected with `pprof -top` or
// `pprof -web` instead of a bespoke text table.
func WriteTimeReport(ctx *Context, path string) error {
	records := ctx.Timer.Records()
	if len(records) == 0 {
		return nil
	}

	p := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: "cpu", Unit: "nanoseconds"}},
		PeriodType: &profile.ValueType{Type: "cpu", Unit: "nanoseconds"},
		Period:     1,
	}

	for i, rec := range records {
		fn := &profile.Function{ID: uint64(i + 1), Name: rec.Name}
		loc := &profile.Location{ID: uint64(i + 1), Line: []profile.Line{{Function: fn}}}
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{rec.Duration.Nanoseconds()},
			Label:    map[string][]string{"pass": {rec.Name}},
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return p.Write(f)
}
