// Command dominium-conflict is the CLI surface spec §6 names for the
// conflict domain: validate|inspect|resolve|collapse subcommands, each
// writing a deterministic "KEY=value" body behind a fixed header line, no
// locale-dependent formatting. Shaped after the teacher's
// cmd/rubin-node/main.go: a testable run(args, stdout, stderr) int and a
// thin main that only calls os.Exit.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/domain/conflict"
	"github.com/Julesc013/dominium-sub020/internal/budget"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: dominium-conflict <validate|inspect|resolve|collapse> -fixture=PATH [flags]")
		return 2
	}
	sub := args[0]
	rest := args[1:]

	fs := flag.NewFlagSet("dominium-conflict "+sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fixturePath := fs.String("fixture", "", "path to a DOMINIUM_CONFLICT_FIXTURE_V1 document")
	region := fs.Uint("region", 0, "region id (0 = all regions, where applicable)")
	tick := fs.Uint64("tick", 0, "tick to resolve at")
	tickDelta := fs.Uint64("tick-delta", 1, "tick delta for resolve")
	budgetMax := fs.Uint("budget", 1000, "budget units available")
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	if *fixturePath == "" {
		fmt.Fprintln(stderr, "missing required -fixture")
		return 2
	}

	raw, err := os.ReadFile(*fixturePath)
	if err != nil {
		fmt.Fprintf(stderr, "read fixture: %v\n", err)
		return 2
	}

	d := conflict.New()
	if err := d.LoadFixture(string(raw)); err != nil {
		fmt.Fprintf(stdout, "DOMINIUM_CONFLICT_%s_V1\nok=0\nerror=%s\n", headerVerb(sub), err)
		return 1
	}
	d.Init(conflict.Surface{Name: *fixturePath})

	switch sub {
	case "validate":
		return runValidate(d, stdout)
	case "inspect":
		b := budget.NewBudget(uint32(*budgetMax))
		return runInspect(d, uint32(*region), &b, stdout)
	case "resolve":
		b := budget.NewBudget(uint32(*budgetMax))
		return runResolve(d, uint32(*region), *tick, *tickDelta, &b, stdout)
	case "collapse":
		return runCollapse(d, uint32(*region), stdout)
	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", sub)
		return 2
	}
}

func headerVerb(sub string) string {
	switch sub {
	case "validate":
		return "VALIDATE"
	case "inspect":
		return "INSPECT"
	case "resolve":
		return "RESOLVE"
	case "collapse":
		return "COLLAPSE"
	default:
		return "UNKNOWN"
	}
}

func runValidate(d *conflict.Domain, stdout io.Writer) int {
	fmt.Fprintln(stdout, "DOMINIUM_CONFLICT_VALIDATE_V1")
	fmt.Fprintln(stdout, "ok=1")
	fmt.Fprintf(stdout, "record_count=%d\n", d.Records.Count())
	fmt.Fprintf(stdout, "side_count=%d\n", d.Sides.Count())
	fmt.Fprintf(stdout, "event_count=%d\n", d.Events.Count())
	fmt.Fprintf(stdout, "force_count=%d\n", d.Forces.Count())
	fmt.Fprintf(stdout, "occupation_count=%d\n", d.Occupations.Count())
	fmt.Fprintf(stdout, "moralefield_count=%d\n", d.MoraleFields.Count())
	return 0
}

func runInspect(d *conflict.Domain, region uint32, b *budget.Budget, stdout io.Writer) int {
	s := d.QueryRegion(region, b)
	fmt.Fprintln(stdout, "DOMINIUM_CONFLICT_INSPECT_V1")
	fmt.Fprintf(stdout, "ok=%d\n", boolInt(s.Meta.Status == domain.StatusOK))
	fmt.Fprintf(stdout, "region=%d\n", s.RegionID)
	fmt.Fprintf(stdout, "partial=%d\n", boolInt(s.Partial))
	fmt.Fprintf(stdout, "refusal_reason=%s\n", s.Meta.RefusalReason)
	fmt.Fprintf(stdout, "force_count=%d\n", s.ForceCount)
	fmt.Fprintf(stdout, "side_count=%d\n", s.SideCount)
	fmt.Fprintf(stdout, "readiness_avg_q16=%d\n", s.ReadinessAvg)
	fmt.Fprintf(stdout, "morale_avg_q16=%d\n", s.MoraleAvg)
	fmt.Fprintf(stdout, "legitimacy_avg_q16=%d\n", s.LegitimacyAvg)
	fmt.Fprintf(stdout, "budget_used=%d\n", s.Meta.BudgetUsed)
	fmt.Fprintf(stdout, "budget_max=%d\n", s.Meta.BudgetMax)
	if s.Meta.Status != domain.StatusOK {
		return 1
	}
	return 0
}

func runResolve(d *conflict.Domain, region uint32, tick, tickDelta uint64, b *budget.Budget, stdout io.Writer) int {
	res := d.Resolve(region, tick, tickDelta, b)
	fmt.Fprintln(stdout, "DOMINIUM_CONFLICT_RESOLVE_V1")
	fmt.Fprintf(stdout, "ok=%d\n", boolInt(res.OK))
	fmt.Fprintf(stdout, "flags=%d\n", res.Flags)
	fmt.Fprintf(stdout, "refusal_reason=%s\n", res.RefusalReason)
	fmt.Fprintf(stdout, "event_applied_count=%d\n", res.EventAppliedCount)
	fmt.Fprintf(stdout, "record_count=%d\n", res.Counts.Records)
	fmt.Fprintf(stdout, "side_count=%d\n", res.Counts.Sides)
	fmt.Fprintf(stdout, "force_count=%d\n", res.Counts.Forces)
	fmt.Fprintf(stdout, "readiness_avg_q16=%d\n", res.ReadinessAvg)
	fmt.Fprintf(stdout, "morale_avg_q16=%d\n", res.MoraleAvg)
	fmt.Fprintf(stdout, "legitimacy_avg_q16=%d\n", res.LegitimacyAvg)
	fmt.Fprintf(stdout, "resolve_hash=%d\n", res.ResolveHash)
	if !res.OK {
		return 1
	}
	return 0
}

func runCollapse(d *conflict.Domain, region uint32, stdout io.Writer) int {
	fmt.Fprintln(stdout, "DOMINIUM_CONFLICT_COLLAPSE_V1")
	if region == 0 {
		fmt.Fprintln(stdout, "ok=0")
		fmt.Fprintln(stdout, "error=region=0 not collapsible")
		return 1
	}
	ok := d.CollapseRegion(region)
	fmt.Fprintf(stdout, "ok=%d\n", boolInt(ok))
	fmt.Fprintf(stdout, "region=%d\n", region)
	fmt.Fprintf(stdout, "capsule_count=%d\n", d.Capsules.Count())
	if !ok {
		return 1
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
