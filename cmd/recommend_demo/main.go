// README: Runs one search from the command line against a provider (or all of them) and prints the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shrimpy8/family-activity-finder/internal/ai"
	"github.com/shrimpy8/family-activity-finder/internal/config"
	"github.com/shrimpy8/family-activity-finder/internal/infra"
	"github.com/shrimpy8/family-activity-finder/internal/modules/activity"
	"github.com/shrimpy8/family-activity-finder/internal/service"
	"github.com/shrimpy8/family-activity-finder/internal/types"
)

func main() {
	_ = godotenv.Load()

	var (
		provider    = flag.String("provider", "", "anthropic, perplexity, gemini or all (default DEFAULT_PROVIDER)")
		city        = flag.String("city", "San Francisco", "city")
		state       = flag.String("state", "CA", "two-letter state code")
		zip         = flag.String("zip", "", "optional 5-digit ZIP code")
		ages        = flag.String("ages", "5,8", "comma-separated child ages")
		date        = flag.String("date", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), "YYYY-MM-DD")
		slot        = flag.String("timeslot", string(activity.TimeSlotAfternoon), "all_day, morning, afternoon, evening or night")
		distance    = flag.Float64("distance", activity.DefaultDistance, "search radius in miles")
		preferences = flag.String("preferences", "", "free-text preferences")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v", err)
	}
	log := infra.NewLogger(os.Stderr, cfg.Log.Level, cfg.Debug)

	criteria := activity.SearchCriteria{
		City:        *city,
		State:       strings.ToUpper(*state),
		ZipCode:     *zip,
		Date:        *date,
		TimeSlot:    activity.TimeSlot(*slot),
		Distance:    *distance,
		Preferences: *preferences,
	}
	for _, a := range strings.Split(*ages, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			fatalf("invalid age %q", a)
		}
		criteria.Ages = append(criteria.Ages, n)
	}
	if err := criteria.Validate(time.Now()); err != nil {
		fatalf("%v", err)
	}

	id := cfg.Recommend.DefaultProvider
	if *provider != "" {
		id = types.ProviderID(strings.ToLower(*provider))
	}

	recommender := service.NewRecommender(ai.NewRegistry(cfg.Providers, log), nil, cfg.Recommend.ProviderTimeout, cfg.Debug, log)
	ctx := context.Background()

	if id == types.ProviderAll {
		results, err := recommender.RecommendAll(ctx, criteria)
		if err != nil {
			fatalf("%v", err)
		}
		for _, r := range results {
			fmt.Printf("== %s (%s) ==\n", r.Provider, r.ModelName)
			if !r.Succeeded() {
				fmt.Printf("error: %s\n\n", r.Error)
				continue
			}
			printRecommendations(r.Recommendations)
		}
		return
	}

	res, err := recommender.Recommend(ctx, id, criteria)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("== %s (%s) ==\n", res.Provider, res.ModelName)
	printRecommendations(res.Recommendations)
}

func printRecommendations(recs []activity.Recommendation) {
	for i, r := range recs {
		fmt.Printf("%d. %s %s\n   %s\n\n", i+1, r.Emoji, r.Title, strings.ReplaceAll(r.Description, "\n", "\n   "))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
