// Command dominium-economy is the CLI surface spec §6 names for the
// economy domain: validate|inspect|resolve|collapse subcommands, mirroring
// cmd/dominium-conflict's shape over economy's entity set.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Julesc013/dominium-sub020/domain"
	"github.com/Julesc013/dominium-sub020/domain/economy"
	"github.com/Julesc013/dominium-sub020/internal/budget"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "usage: dominium-economy <validate|inspect|resolve|collapse> -fixture=PATH [flags]")
		return 2
	}
	sub := args[0]
	rest := args[1:]

	fs := flag.NewFlagSet("dominium-economy "+sub, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fixturePath := fs.String("fixture", "", "path to a DOMINIUM_ECONOMY_FIXTURE_V1 document")
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

	d := economy.New()
	if err := d.LoadFixture(string(raw)); err != nil {
		fmt.Fprintf(stdout, "DOMINIUM_ECONOMY_%s_V1\nok=0\nerror=%s\n", headerVerb(sub), err)
		return 1
	}
	d.Init(economy.Surface{Name: *fixturePath})

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

func runValidate(d *economy.Domain, stdout io.Writer) int {
	fmt.Fprintln(stdout, "DOMINIUM_ECONOMY_VALIDATE_V1")
	fmt.Fprintln(stdout, "ok=1")
	fmt.Fprintf(stdout, "container_count=%d\n", d.Containers.Count())
	fmt.Fprintf(stdout, "storage_count=%d\n", d.Storages.Count())
	fmt.Fprintf(stdout, "transport_count=%d\n", d.Transports.Count())
	fmt.Fprintf(stdout, "job_count=%d\n", d.Jobs.Count())
	fmt.Fprintf(stdout, "market_count=%d\n", d.Markets.Count())
	fmt.Fprintf(stdout, "offer_count=%d\n", d.Offers.Count())
	fmt.Fprintf(stdout, "bid_count=%d\n", d.Bids.Count())
	fmt.Fprintf(stdout, "transaction_count=%d\n", d.Transactions.Count())
	return 0
}

func runInspect(d *economy.Domain, region uint32, b *budget.Budget, stdout io.Writer) int {
	s := d.QueryRegion(region, b)
	fmt.Fprintln(stdout, "DOMINIUM_ECONOMY_INSPECT_V1")
	fmt.Fprintf(stdout, "ok=%d\n", boolInt(s.Meta.Status == domain.StatusOK))
	fmt.Fprintf(stdout, "region=%d\n", s.RegionID)
	fmt.Fprintf(stdout, "partial=%d\n", boolInt(s.Partial))
	fmt.Fprintf(stdout, "refusal_reason=%s\n", s.Meta.RefusalReason)
	fmt.Fprintf(stdout, "offer_count=%d\n", s.OfferCount)
	fmt.Fprintf(stdout, "bid_count=%d\n", s.BidCount)
	fmt.Fprintf(stdout, "goods_total_avg_q16=%d\n", s.GoodsTotalAvg)
	fmt.Fprintf(stdout, "price_avg_q16=%d\n", s.PriceAvg)
	fmt.Fprintf(stdout, "budget_used=%d\n", s.Meta.BudgetUsed)
	fmt.Fprintf(stdout, "budget_max=%d\n", s.Meta.BudgetMax)
	if s.Meta.Status != domain.StatusOK {
		return 1
	}
	return 0
}

func runResolve(d *economy.Domain, region uint32, tick, tickDelta uint64, b *budget.Budget, stdout io.Writer) int {
	res := d.Resolve(region, tick, tickDelta, b)
	fmt.Fprintln(stdout, "DOMINIUM_ECONOMY_RESOLVE_V1")
	fmt.Fprintf(stdout, "ok=%d\n", boolInt(res.OK))
	fmt.Fprintf(stdout, "flags=%d\n", res.Flags)
	fmt.Fprintf(stdout, "refusal_reason=%s\n", res.RefusalReason)
	fmt.Fprintf(stdout, "container_count=%d\n", res.Counts.Containers)
	fmt.Fprintf(stdout, "storage_count=%d\n", res.Counts.Storages)
	fmt.Fprintf(stdout, "offer_count=%d\n", res.Counts.Offers)
	fmt.Fprintf(stdout, "bid_count=%d\n", res.Counts.Bids)
	fmt.Fprintf(stdout, "goods_total_avg_q16=%d\n", res.GoodsTotalAvg)
	fmt.Fprintf(stdout, "price_avg_q16=%d\n", res.PriceAvg)
	fmt.Fprintf(stdout, "volume_avg_q16=%d\n", res.VolumeAvg)
	fmt.Fprintf(stdout, "resolve_hash=%d\n", res.ResolveHash)
	if !res.OK {
		return 1
	}
	return 0
}

func runCollapse(d *economy.Domain, region uint32, stdout io.Writer) int {
	fmt.Fprintln(stdout, "DOMINIUM_ECONOMY_COLLAPSE_V1")
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
